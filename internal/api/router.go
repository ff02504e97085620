// Package api is the REST surface over the feature specification
// language: validation, categorization, enumeration, and catalog reads.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"hoopsight/internal/api/handlers"
	"hoopsight/pkg/logger"
	"hoopsight/pkg/metrics"
	"hoopsight/pkg/redis"
)

// NewRouter creates and configures the HTTP router. All routing lives in
// this function.
func NewRouter(
	featureHandler *handlers.FeatureHandler,
	catalogHandler *handlers.CatalogHandler,
	limiter *redis.RateLimiter,
	m *metrics.Metrics,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check and metrics
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Feature language endpoints
	api.HandleFunc("/features/validate", featureHandler.Validate).Methods("POST")
	api.HandleFunc("/features/categorize", featureHandler.Categorize).Methods("POST")
	api.HandleFunc("/features/groups", featureHandler.ListGroups).Methods("GET")
	api.HandleFunc("/features/manifest", featureHandler.Manifest).Methods("GET")

	// Enumeration is the expensive path; it carries its own rate limit.
	api.Handle("/features/enumerate",
		rateLimitMiddleware(limiter, log)(http.HandlerFunc(featureHandler.EnumerateAll))).Methods("GET")
	api.Handle("/features/groups/{name}",
		rateLimitMiddleware(limiter, log)(http.HandlerFunc(featureHandler.EnumerateGroup))).Methods("GET")

	// Catalog endpoints
	api.HandleFunc("/catalog/stats", catalogHandler.ListStats).Methods("GET")
	api.HandleFunc("/catalog/stats/{name}", catalogHandler.GetStat).Methods("GET")

	// Apply middleware
	r.Use(metricsMiddleware(m))
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "hoopsight-api",
	})
}

// statusRecorder captures the response status for middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware records request counts and latency per route
// template, so path parameters never explode label cardinality.
func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies the shared sliding-window budget. When
// Redis is disabled the limiter allows everything, so local development
// never hits it.
func rateLimitMiddleware(limiter *redis.RateLimiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, err := limiter.Allow(r.Context(), redis.APIRateLimit)
			if err != nil {
				// A broken limiter must not take the API down.
				log.WithError(err).Warn("Rate limiter check failed")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}
