package api

import (
	"net/http"

	"github.com/tastoria/orders-api/internal/domain/cart"
)

type cartRequest struct {
	Items []cart.Line `json:"items"`
}

type cartResponse struct {
	Email string      `json:"email"`
	Items []cart.Line `json:"items"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	lines, err := h.carts.Get(r.Context(), email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Email: email, Items: lines})
}

func (h *Handler) replaceCart(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	if err := h.carts.Replace(r.Context(), email, req.Items); err != nil {
		writeDomainError(w, r, err)
		return
	}

	lines, err := h.carts.Get(r.Context(), email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Email: email, Items: lines})
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	if err := h.carts.Merge(r.Context(), email, req.Items); err != nil {
		writeDomainError(w, r, err)
		return
	}

	lines, err := h.carts.Get(r.Context(), email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Email: email, Items: lines})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), r.PathValue("email")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
