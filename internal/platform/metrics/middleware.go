package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests that no chi route matched, keeping the
// route label bounded.
const unmatchedRoute = "unmatched"

// responseWriter captures the status code for metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestMiddleware returns chi middleware that records every request by
// method, route pattern and status, plus the request and error totals.
// Rejected edits answer 422 and so count as errors as well as rejections.
func RequestMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrap, r)

			m.IncRequests()
			if wrap.status >= http.StatusBadRequest {
				m.IncErrors()
			}
			m.ObserveRequest(r.Method, routePattern(r), wrap.status, time.Since(start))
		})
	}
}

// routePattern returns the matched chi pattern, e.g.
// /sessions/{media_id}/segments/{index}/toggle, never the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
