package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tastoria/orders-api/internal/domain/identity"
)

type claimsKey struct{}

// claimsFromContext returns the verified token claims stored by the auth
// guard, or nil outside a guarded route.
func claimsFromContext(ctx context.Context) *identity.Claims {
	c, _ := ctx.Value(claimsKey{}).(*identity.Claims)
	return c
}

// requireAuth rejects requests without a valid bearer token and stores
// the claims in the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// requireAdmin is requireAuth plus an admin role check.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.authenticate(w, r)
		if !ok {
			return
		}
		if claims.Role != identity.RoleAdmin {
			writeError(w, http.StatusForbidden, kindUnauthorized, "admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*identity.Claims, bool) {
	raw := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(raw, "Bearer ")
	if !found || token == "" {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "missing bearer token")
		return nil, false
	}

	claims, err := h.identity.ParseToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "invalid token")
		return nil, false
	}
	return claims, true
}
