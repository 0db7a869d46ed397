package orders

import (
	"encoding/json"
	"net/http"

	"lanchonete/internal/auth"
	"lanchonete/internal/domain"
	"lanchonete/internal/httpx"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler { return &Handler{service: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	o, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	limit, offset := httpx.Pagination(r)
	list, err := h.service.List(r.Context(), caller, limit, offset)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "order id must be a positive integer")
		return
	}
	o, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "order id must be a positive integer")
		return
	}
	var patch domain.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	o, err := h.service.Update(r.Context(), caller, id, patch)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_id", "order id must be a positive integer")
		return
	}
	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
