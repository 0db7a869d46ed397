package catalog

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanchonete/internal/domain"
)

type fakeCache struct {
	store map[string]string
	sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.store[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.sets++
	f.store[key] = value
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func (f *fakeCache) Key(operation, suffix string) string { return operation + ":" + suffix }

// listOnlyService counts catalog reads; everything else is unused here.
type listOnlyService struct {
	ServiceInterface
	products  []domain.Product
	listCalls int
}

func (s *listOnlyService) ListProducts(_ context.Context, _, _ int) ([]domain.Product, error) {
	s.listCalls++
	return s.products, nil
}

func newCacheTestHandler() (*Handler, *listOnlyService, *fakeCache) {
	svc := &listOnlyService{products: []domain.Product{
		{ID: 1, Name: "X-Burger", Price: decimal.RequireFromString("10.00"), EstablishmentID: 1},
	}}
	c := newFakeCache()
	h := NewHandler(svc, c, 30*time.Second, slog.Default())
	return h, svc, c
}

func TestListProducts_CachesDefaultPage(t *testing.T) {
	h, svc, c := newCacheTestHandler()

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest("GET", "/products", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, 1, c.sets)

	// Second default-page read is served from the cache.
	rec = httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest("GET", "/products", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Burger")
	assert.Equal(t, 1, svc.listCalls)
}

func TestListProducts_NonDefaultPageSkipsCache(t *testing.T) {
	h, svc, c := newCacheTestHandler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ListProducts(rec, httptest.NewRequest("GET", "/products?limit=10&skip=20", nil))
		require.Equal(t, 200, rec.Code)
	}

	// Paged reads go to the database every time and never populate the cache,
	// so a product write can never leave a page stale.
	assert.Equal(t, 2, svc.listCalls)
	assert.Zero(t, c.sets)
}

func TestListProducts_WriteInvalidates(t *testing.T) {
	h, svc, c := newCacheTestHandler()

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest("GET", "/products", nil))
	require.Equal(t, 200, rec.Code)
	require.Equal(t, 1, c.sets)

	h.invalidateProducts(context.Background())

	rec = httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest("GET", "/products", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, 2, svc.listCalls, "invalidated page must be re-read")
}

func TestListProducts_NilCache(t *testing.T) {
	svc := &listOnlyService{}
	h := NewHandler(svc, nil, 0, slog.Default())

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest("GET", "/products", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}
