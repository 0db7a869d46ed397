package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextHandler decorates every record with the request id that chi's
// RequestID middleware stored in the context, so all log lines of one request
// can be correlated.
type ContextHandler struct {
	slog.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	return h.Handler.Handle(ctx, r)
}

// New returns a JSON slog logger tagged with the service name and installs it
// as the default.
func New(service string) *slog.Logger {
	handler := &ContextHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})}
	log := slog.New(handler).With("service", service)
	slog.SetDefault(log)
	return log
}
