package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lanchonete/internal/auth"
	"lanchonete/internal/catalog"
	"lanchonete/internal/httpx"
	"lanchonete/internal/metrics"
	"lanchonete/internal/orders"
	"lanchonete/internal/users"
)

type Handlers struct {
	Users   *users.Handler
	Catalog *catalog.Handler
	Orders  *orders.Handler
}

// NewRouter wires every route. Reads of individual catalog entities and the
// product/category listings are public; everything else requires a bearer
// token.
func NewRouter(h Handlers, tokens *auth.TokenManager, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/users/register", h.Users.Register)
	r.Post("/users/token", h.Users.Login)

	r.Get("/establishments/{id}", h.Catalog.GetEstablishment)
	r.Get("/categories", h.Catalog.ListCategories)
	r.Get("/categories/{id}", h.Catalog.GetCategory)
	r.Get("/products", h.Catalog.ListProducts)
	r.Get("/products/{id}", h.Catalog.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Get("/users/me", h.Users.Me)
		r.Get("/users", h.Users.List)

		r.Post("/establishments", h.Catalog.CreateEstablishment)
		r.Get("/establishments", h.Catalog.ListEstablishments)
		r.Put("/establishments/{id}", h.Catalog.UpdateEstablishment)
		r.Delete("/establishments/{id}", h.Catalog.DeleteEstablishment)

		r.Post("/categories", h.Catalog.CreateCategory)
		r.Put("/categories/{id}", h.Catalog.UpdateCategory)
		r.Delete("/categories/{id}", h.Catalog.DeleteCategory)

		r.Post("/products", h.Catalog.CreateProduct)
		r.Put("/products/{id}", h.Catalog.UpdateProduct)
		r.Delete("/products/{id}", h.Catalog.DeleteProduct)

		r.Post("/orders", h.Orders.Create)
		r.Get("/orders", h.Orders.List)
		r.Get("/orders/{id}", h.Orders.Get)
		r.Put("/orders/{id}", h.Orders.Update)
		r.Delete("/orders/{id}", h.Orders.Delete)
	})

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
