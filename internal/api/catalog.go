package api

import (
	"net/http"

	"github.com/tastoria/orders-api/internal/domain/catalog"
)

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.catalog.Restaurants(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if restaurants == nil {
		restaurants = []catalog.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest catalog.Restaurant
	if err := decodeJSON(r, &rest); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	if err := h.catalog.CreateRestaurant(r.Context(), &rest); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest catalog.Restaurant
	if err := decodeJSON(r, &rest); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	rest.ID = r.PathValue("id")

	if err := h.catalog.UpdateRestaurant(r.Context(), &rest); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteRestaurant(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "restaurant deleted"})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Menu(r.Context(), r.PathValue("restaurant"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var item catalog.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	item.Restaurant = r.PathValue("restaurant")

	if err := h.catalog.CreateItem(r.Context(), &item); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item catalog.MenuItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	item.ID = r.PathValue("id")

	if err := h.catalog.UpdateItem(r.Context(), r.PathValue("restaurant"), &item); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.DeleteItem(r.Context(), r.PathValue("restaurant"), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

func (h *Handler) uploadMenuImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "menu")
}

func (h *Handler) uploadRestaurantImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "restaurants")
}

// uploadImage accepts a multipart form with a "file" part, stores it in
// the given folder, and returns the hosted image URL.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, folder string) {
	const maxUploadSize = 10 << 20

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "file part is required")
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(r.Context(), folder, file)
	if err != nil {
		writeError(w, http.StatusBadGateway, kindDependency, "image upload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
