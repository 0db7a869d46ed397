package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lanchonete/internal/domain"
)

type errorResponse struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, errorResponse{
		Type:   typ,
		Title:  http.StatusText(code),
		Status: code,
		Detail: detail,
	})
}

// Error maps domain error kinds to HTTP statuses in one place:
// validation failures are 400, missing entities 404, scope violations 403,
// anything else an opaque 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *domain.ProductNotFoundError
		mismatch *domain.ProductMismatchError
		quantity *domain.InvalidQuantityError
		status   *domain.InvalidStatusError
		payment  *domain.InvalidPaymentMethodError
	)
	switch {
	case errors.As(err, &notFound):
		WriteProblem(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.As(err, &mismatch):
		WriteProblem(w, http.StatusBadRequest, "product_mismatch", err.Error())
	case errors.As(err, &quantity):
		WriteProblem(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.As(err, &status):
		WriteProblem(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.As(err, &payment):
		WriteProblem(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteProblem(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrEmptyOrder):
		WriteProblem(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, domain.ErrDeliveryAddress):
		WriteProblem(w, http.StatusBadRequest, "missing_delivery_address", err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		WriteProblem(w, http.StatusBadRequest, "email_taken", err.Error())
	case errors.Is(err, domain.ErrHasEstablishment):
		WriteProblem(w, http.StatusBadRequest, "establishment_exists", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteProblem(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteProblem(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteProblem(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
