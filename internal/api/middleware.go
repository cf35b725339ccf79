// internal/api/middleware.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/metrics"
	"jobmindr/internal/common/observability"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const RequestIDHeader = "X-Request-ID"

// Middleware wraps a handler.
type Middleware func(next http.Handler) http.Handler

// Chain applies mws so the first one is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.status = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

func RecoverMiddleware(errs *apperrors.ErrorHandler, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					err := apperrors.NewInternalError(fmt.Errorf("panic: %v", p))
					if rec.written {
						logger.FromContext(r.Context(), log).Error("panic after response started", map[string]interface{}{
							"error": err,
						})
						return
					}
					errs.WriteError(rec, r, err)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// RequestIDMiddleware reuses an inbound X-Request-ID or mints one, echoes it
// and attaches a request-scoped logger to the context.
func RequestIDMiddleware(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			reqLog := log.WithFields(map[string]interface{}{
				"requestId": id,
				"method":    r.Method,
				"path":      r.URL.Path,
			})
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), reqLog)))
		})
	}
}

func AccessLogMiddleware(router *mux.Router, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logger.FromContext(r.Context(), log).Info("request completed", map[string]interface{}{
				"route":      routeTemplate(router, r),
				"status":     rec.status,
				"durationMs": time.Since(start).Milliseconds(),
				"remoteAddr": r.RemoteAddr,
			})
		})
	}
}

// MetricsMiddleware records Prometheus and OpenTelemetry request metrics and
// wraps the request in a server span.
func MetricsMiddleware(router *mux.Router, obs *observability.Observability) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeTemplate(router, r)

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			ctx, span := obs.StartSpan(r.Context(), r.Method+" "+route,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
			)
			defer span.End()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			elapsed := time.Since(start)
			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
			obs.RecordRequest(ctx, r.Method, route, rec.status, elapsed)
		})
	}
}

// CORSMiddleware answers preflight requests itself. An empty origin disables it.
func CORSMiddleware(origin string) Middleware {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// routeTemplate keeps metric label cardinality bounded.
func routeTemplate(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if router == nil || !router.Match(r, &match) || match.Route == nil {
		return "unmatched"
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
