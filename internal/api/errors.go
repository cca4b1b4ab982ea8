package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tastoria/orders-api/internal/domain/cart"
	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/domain/identity"
	"github.com/tastoria/orders-api/internal/domain/order"
)

// Error kinds carried in responses so clients can branch without parsing
// messages.
const (
	kindValidation   = "validation"
	kindNotFound     = "not_found"
	kindConflict     = "conflict"
	kindUnauthorized = "unauthorized"
	kindDependency   = "dependency"
	kindInternal     = "internal"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Code: status, Kind: kind, Message: message})
}

// writeDomainError maps a domain error onto the wire taxonomy. Unmapped
// errors are logged and surface as an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		itemNotFound      *order.ItemNotFoundError
		invalidQuantity   *order.InvalidQuantityError
		invalidLine       *cart.InvalidLineError
		missingRestaurant *cart.MissingRestaurantError
		invalidItem       *catalog.InvalidItemError
		invalidInput      *identity.InvalidInputError
	)

	switch {
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidStatus),
		errors.As(err, &invalidLine),
		errors.As(err, &missingRestaurant),
		errors.As(err, &invalidItem),
		errors.As(err, &invalidInput):
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())

	case errors.As(err, &invalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, kindValidation, err.Error())

	case errors.As(err, &itemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrRestaurantNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())

	case errors.Is(err, order.ErrNumberConflict), errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, kindConflict, err.Error())

	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrInvalidOTP):
		writeError(w, http.StatusUnauthorized, kindUnauthorized, err.Error())

	default:
		zctx.From(r.Context()).Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindInternal, "internal server error")
	}
}
