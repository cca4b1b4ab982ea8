// Package api exposes the HTTP JSON surface of the orders service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/tastoria/orders-api/internal/domain/analytics"
	"github.com/tastoria/orders-api/internal/domain/cart"
	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/domain/identity"
	"github.com/tastoria/orders-api/internal/domain/order"
	"github.com/tastoria/orders-api/internal/upload"
)

// Handler holds the domain services behind the HTTP routes.
type Handler struct {
	catalog  *catalog.Service
	carts    *cart.Service
	orders   *order.Service
	reports  *analytics.Reporter
	identity *identity.Service
	uploads  upload.Uploader
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cat *catalog.Service,
	carts *cart.Service,
	orders *order.Service,
	reports *analytics.Reporter,
	ident *identity.Service,
	uploads upload.Uploader,
) *Handler {
	return &Handler{
		catalog:  cat,
		carts:    carts,
		orders:   orders,
		reports:  reports,
		identity: ident,
		uploads:  uploads,
	}
}

// Routes builds the service mux. Admin-only routes are wrapped with the
// bearer-token guards.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Orders.
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.Handle("GET /api/orders", h.requireAdmin(h.listOrders))
	mux.HandleFunc("GET /api/orders/restaurant/{restaurant}", h.listOrdersByRestaurant)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.updateOrderStatus)
	mux.Handle("GET /api/orders/stats", h.requireAdmin(h.orderStats))

	// Cart.
	mux.HandleFunc("GET /api/cart/{email}", h.getCart)
	mux.HandleFunc("POST /api/cart/{email}", h.replaceCart)
	mux.HandleFunc("POST /api/cart/{email}/add-multiple", h.mergeCart)
	mux.HandleFunc("DELETE /api/cart/{email}", h.clearCart)

	// Menu and analytics.
	mux.HandleFunc("GET /api/menu/sales", h.salesByDay)
	mux.HandleFunc("GET /api/menu/trending", h.trendingItems)
	mux.Handle("POST /api/menu/upload-image", h.requireAdmin(h.uploadMenuImage))
	mux.HandleFunc("GET /api/menu/{restaurant}", h.getMenu)
	mux.Handle("POST /api/menu/{restaurant}", h.requireAdmin(h.createMenuItem))
	mux.Handle("PUT /api/menu/{restaurant}/{id}", h.requireAdmin(h.updateMenuItem))
	mux.Handle("DELETE /api/menu/{restaurant}/{id}", h.requireAdmin(h.deleteMenuItem))

	// Restaurants.
	mux.HandleFunc("GET /api/restaurants", h.listRestaurants)
	mux.Handle("POST /api/restaurants", h.requireAdmin(h.createRestaurant))
	mux.Handle("POST /api/restaurants/upload-image", h.requireAdmin(h.uploadRestaurantImage))
	mux.Handle("PUT /api/restaurants/{id}", h.requireAdmin(h.updateRestaurant))
	mux.Handle("DELETE /api/restaurants/{id}", h.requireAdmin(h.deleteRestaurant))

	// Auth.
	mux.HandleFunc("POST /api/auth/signup", h.signup)
	mux.HandleFunc("POST /api/auth/verify-otp", h.verifyOTP)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/google-signin", h.googleSignIn)
	mux.Handle("GET /api/auth/me", h.requireAuth(h.me))
	mux.Handle("GET /api/auth/profile", h.requireAuth(h.me))
	mux.Handle("PUT /api/auth/profile", h.requireAuth(h.updateProfile))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
