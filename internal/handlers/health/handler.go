// internal/handlers/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"

	"github.com/gorilla/mux"
)

// Pinger is a dependency readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks  map[string]Pinger
	timeout time.Duration
	logger  logger.Logger
	now     func() time.Time
}

// NewHandler builds the liveness and readiness endpoints. Nil pingers are
// skipped so an optional dependency (Redis) can be left out.
func NewHandler(checks map[string]Pinger, timeout time.Duration, log logger.Logger) *Handler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Handler{
		checks:  active,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"handler": "health"}),
		now:     time.Now,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, Response{
		Status: "healthy",
		Time:   h.now().Format(time.RFC3339),
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	resp := Response{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", map[string]interface{}{
				"check": name,
				"error": err,
			})
			resp.Checks[name] = "down"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}
	resp.Time = h.now().Format(time.RFC3339)
	apperrors.WriteJSON(w, status, resp)
}
