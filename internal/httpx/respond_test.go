package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanchonete/internal/domain"
)

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"product not found", &domain.ProductNotFoundError{ProductID: 9}, http.StatusNotFound, "product_not_found"},
		{"product mismatch", &domain.ProductMismatchError{ProductID: 9, EstablishmentID: 1}, http.StatusBadRequest, "product_mismatch"},
		{"invalid quantity", &domain.InvalidQuantityError{ProductID: 9, Quantity: 0}, http.StatusBadRequest, "invalid_quantity"},
		{"empty order", domain.ErrEmptyOrder, http.StatusBadRequest, "empty_order"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid status", &domain.InvalidStatusError{Status: "eaten"}, http.StatusBadRequest, "invalid_status"},
		{"storage failure", &domain.StorageError{Op: "create order", Err: errors.New("boom")}, http.StatusInternalServerError, "internal_error"},
		{"wrapped sentinel", fmt.Errorf("get order: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
			Error(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body struct {
				Type   string `json:"type"`
				Status int    `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.typ, body.Type)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestError_OpaqueInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	Error(rec, req, &domain.StorageError{Op: "commit", Err: errors.New("connection reset")})

	assert.NotContains(t, rec.Body.String(), "connection reset")
}
