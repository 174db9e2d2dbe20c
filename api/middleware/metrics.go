package middleware

import (
	"net/http"
	"time"

	"github.com/rgoyal-dev/shopkart-backend/pkg/metrics"
)

// Metrics records request counts and latencies keyed by the chi route
// pattern, so /api/v1/orders/{orderId} stays a single series.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			httpMetrics.Observe(r.Method, routePattern(r), recorder.status, time.Since(start))
		})
	}
}
