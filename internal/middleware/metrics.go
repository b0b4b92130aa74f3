package middleware

import (
	"net/http"
	"time"

	"github.com/jwebster45206/scene-engine/internal/metrics"
)

const unmatchedPath = "unmatched"

// Metrics records request counts and latency. It must wrap the ServeMux
// directly so the matched route pattern is visible after dispatch.
func Metrics(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		// Label by route pattern, never the raw URL.
		path := r.Pattern
		if path == "" {
			path = unmatchedPath
		}
		m.ObserveRequest(path, r.Method, rec.status, time.Since(start))
	})
}
