package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/chatori/chatori-backend/internal/infrastructure/observability"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Use route pattern instead of raw path to avoid high cardinality
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}

			ctx, span := observability.StartSpan(r.Context(), route)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, duration)

			observability.SetSpanAttributes(span, attribute.Int("http.status_code", rw.statusCode))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
