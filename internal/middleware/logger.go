// File: internal/middleware/logger.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/services"
)

// LoggingMiddleware logs each request and records it in the HTTP metrics.
func LoggingMiddleware(logger services.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			collector.RecordHTTPRequest(r.Method, route, rec.statusCode, duration)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration", duration,
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}
