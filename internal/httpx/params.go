package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// DefaultLimit is the page size used when the caller sends no limit.
const (
	DefaultLimit = 100
	maxLimit     = 500
)

// Pagination reads skip/limit query parameters with safe defaults.
func Pagination(r *http.Request) (limit, offset int) {
	limit = atoiDefault(r.URL.Query().Get("limit"), DefaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = DefaultLimit
	}
	offset = atoiDefault(r.URL.Query().Get("skip"), 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// IDParam extracts a numeric {id} route parameter.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
