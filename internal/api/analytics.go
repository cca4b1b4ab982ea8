package api

import (
	"net/http"
	"strconv"

	"github.com/tastoria/orders-api/internal/domain/analytics"
)

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	sales, err := h.reports.SalesByDay(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if sales == nil {
		sales = []analytics.DailySales{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *Handler) trendingItems(w http.ResponseWriter, r *http.Request) {
	limit := analytics.DefaultTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, kindValidation, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.reports.TrendingItems(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []analytics.TrendingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
