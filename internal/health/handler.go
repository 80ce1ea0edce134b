package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const pingTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler reports whether the record store is reachable.
type Handler struct {
	store Checker
}

// NewHandler creates a new health handler.
func NewHandler(store Checker) *Handler {
	return &Handler{store: store}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string `enum:"ok,degraded"         json:"status"`
		Store  string `enum:"healthy,unhealthy" json:"store"`
	}
}

// Check pings the record store. An unreachable store degrades the service
// but still answers 200.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Store = "healthy"

	if err := h.store.Ping(ctx); err != nil {
		resp.Body.Status = "degraded"
		resp.Body.Store = "unhealthy"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
