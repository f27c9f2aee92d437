package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Counter отдает количество строк в таблице
type Counter interface {
	Count(table string) int
}

type Handler struct {
	tables     Counter
	names      []string
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(tables Counter, names []string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		tables:     tables,
		names:      names,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	counts := make(map[string]int, len(h.names))
	for _, name := range h.names {
		counts[name] = h.tables.Count(name)
	}

	return &Output{
		Body: Response{
			Status: "OK",
			Tables: counts,
		},
	}, nil
}
