package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tastoria/orders-api/internal/domain/order"
)

type placeOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	Restaurant    string             `json:"restaurant"`
	Items         []orderItemRequest `json:"items"`
	EstimatedTime int                `json:"estimatedTime"`
}

type orderItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	Restaurant    string          `json:"restaurant"`
	Items         []order.Line    `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        order.Status    `json:"status"`
	EstimatedTime int             `json:"estimatedTime,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		OrderNumber:   o.Number,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		Restaurant:    o.Restaurant,
		Items:         o.Lines,
		Total:         o.Total,
		Status:        o.Status,
		EstimatedTime: o.EstimatedTime,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	items := make([]order.RequestedItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.RequestedItem{ItemID: it.ItemID, Quantity: it.Quantity}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		Restaurant:    req.Restaurant,
		Items:         items,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) listOrdersByRestaurant(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByRestaurant(r.Context(), r.PathValue("restaurant"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	Restaurant string `json:"restaurant,omitempty"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), order.Status(req.Status), req.Restaurant)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type statsResponse struct {
	TotalOrders    int             `json:"totalOrders"`
	ActiveOrders   int             `json:"activeOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
	TotalCustomers int             `json:"totalCustomers"`
	MenuItems      int             `json:"menuItems"`
	DailyOrders    int             `json:"dailyOrders"`
}

func (h *Handler) orderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TotalOrders:    stats.TotalOrders,
		ActiveOrders:   stats.ActiveOrders,
		TotalRevenue:   stats.TotalRevenue,
		AvgOrderValue:  stats.AvgOrderValue,
		TotalCustomers: stats.TotalCustomers,
		MenuItems:      stats.MenuItems,
		DailyOrders:    stats.DailyOrders,
	})
}
