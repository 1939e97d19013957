// ABOUTME: Request instrumentation for the HTTP API
// ABOUTME: Records method, route pattern, status and latency per request

package api

import (
	"net/http"
	"time"

	"github.com/2389/habitd/internal/metrics"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument wraps next so every request is observed on m under route.
// route should be the mux pattern, not the raw path, to bound label
// cardinality. A nil m returns next unchanged.
func Instrument(m *metrics.Metrics, route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.ObserveHTTPRequest(r.Method, route, rec.status, time.Since(start))
	})
}
