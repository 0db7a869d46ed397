package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"lanchonete/internal/auth"
	"lanchonete/internal/cache"
	"lanchonete/internal/domain"
	"lanchonete/internal/httpx"
)

// Handler serves the establishment, category and product routes. The cache is
// optional (nil disables it) and only fronts the public product listing.
type Handler struct {
	service  ServiceInterface
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewHandler(s ServiceInterface, c cache.Cache, ttl time.Duration, log *slog.Logger) *Handler {
	return &Handler{service: s, cache: c, cacheTTL: ttl, log: log}
}

// --- establishments ---

func (h *Handler) CreateEstablishment(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	var req domain.Establishment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	e, err := h.service.CreateEstablishment(r.Context(), caller, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) ListEstablishments(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	limit, offset := httpx.Pagination(r)
	list, err := h.service.ListEstablishments(r.Context(), caller, limit, offset)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetEstablishment(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "establishment id must be a positive integer")
		return
	}
	e, err := h.service.GetEstablishment(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEstablishment(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "establishment id must be a positive integer")
		return
	}
	var req domain.Establishment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	e, err := h.service.UpdateEstablishment(r.Context(), caller, id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEstablishment(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "establishment id must be a positive integer")
		return
	}
	if err := h.service.DeleteEstablishment(r.Context(), caller, id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "establishment deleted"})
}

// --- categories ---

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "category id must be a positive integer")
		return
	}
	c, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r)
	list, err := h.service.ListCategories(r.Context(), limit, offset)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "category id must be a positive integer")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	c, err := h.service.UpdateCategory(r.Context(), caller, id, req.Name)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "category id must be a positive integer")
		return
	}
	if err := h.service.DeleteCategory(r.Context(), caller, id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// --- products ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	var req domain.Product
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), caller, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.invalidateProducts(r.Context())
	httpx.WriteJSON(w, http.StatusCreated, p)
}

// ListProducts is public and read-heavy, so the default first page is served
// from redis when available. Only that one page is cached: it is the page
// every anonymous menu load requests, and a single key keeps invalidation
// exact. Other pages always hit the database.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r)

	cacheable := h.cache != nil && limit == httpx.DefaultLimit && offset == 0
	if cacheable {
		if body, hit, err := h.cache.Get(r.Context(), productsCacheKey(h.cache)); err == nil && hit {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(body))
			return
		}
	}

	list, err := h.service.ListProducts(r.Context(), limit, offset)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Product{}
	}

	body, err := json.Marshal(list)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if cacheable {
		if err := h.cache.Set(r.Context(), productsCacheKey(h.cache), string(body), h.cacheTTL); err != nil {
			h.log.WarnContext(r.Context(), "product cache write failed", "error", err)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "product id must be a positive integer")
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "product id must be a positive integer")
		return
	}
	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), caller, id, patch)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.invalidateProducts(r.Context())
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "product id must be a positive integer")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), caller, id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.invalidateProducts(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func productsCacheKey(c cache.Cache) string {
	return c.Key("products", "first-page")
}

// invalidateProducts drops the cached first page after any product write.
// Since only that page is ever cached, dropping it leaves nothing stale.
func (h *Handler) invalidateProducts(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, productsCacheKey(h.cache)); err != nil {
		h.log.WarnContext(ctx, "product cache invalidation failed", "error", err)
	}
}
