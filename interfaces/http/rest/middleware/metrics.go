package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"factsaura-backend/pkg/observability"
)

// Metrics records request counts and latency per route pattern
func Metrics(collector *observability.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			collector.HTTPRequests.WithLabelValues(
				r.Method, route, strconv.Itoa(ww.Status()),
			).Inc()
			collector.HTTPDuration.WithLabelValues(
				r.Method, route,
			).Observe(time.Since(start).Seconds())
		})
	}
}
