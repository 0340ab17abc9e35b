package router

import (
	"net/http"

	_ "github.com/evyataryagoni/locationsurvey/docs" // Swagger docs
	"github.com/evyataryagoni/locationsurvey/internal/handler"
	"github.com/evyataryagoni/locationsurvey/internal/limiter"
	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	custommiddleware "github.com/evyataryagoni/locationsurvey/internal/middleware"
	v1 "github.com/evyataryagoni/locationsurvey/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers the router mounts
type Handlers struct {
	Geo     *handler.GeoHandler
	RefData *handler.RefDataHandler
	Forms   *handler.FormHandler
}

// Options holds the cross-cutting router settings
type Options struct {
	CORSAllowedOrigins []string
	MetricsGatherer    prometheus.Gatherer // defaults to prometheus.DefaultGatherer

	// TrustProxyHeaders runs chi's RealIP so the rate limiter keys on the
	// forwarded address. Only enable behind a proxy that sets the headers.
	TrustProxyHeaders bool
}

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - h: the HTTP handlers
//   - rateLimiter: the rate limiter (memory or Redis)
//   - m: metrics collector
//   - log: structured logger
//   - opts: CORS and metrics exposition settings
//
// Returns:
//   - chi.Router: configured router ready to use
func SetupRouter(h Handlers, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger, opts Options) chi.Router {
	r := chi.NewRouter()

	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}
	if opts.MetricsGatherer == nil {
		opts.MetricsGatherer = prometheus.DefaultGatherer
	}

	// Order matters! RequestID first, then logging, then rate limiting
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Detection answers over-budget callers with a 200 fallback
	r.With(custommiddleware.RateLimitMiddlewareWithResponse(rateLimiter, h.Geo.Throttled)).
		Get("/api/detect-country", h.Geo.DetectCountry)

	// Throttled API surface; health, metrics and docs stay reachable
	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.RateLimitMiddleware(rateLimiter))

		r.Mount("/v1", v1.SetupRoutes(h.RefData, h.Forms))
	})

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	r.Handle("/metrics", promhttp.HandlerFor(opts.MetricsGatherer, promhttp.HandlerOpts{}))

	// Swagger UI endpoint - API documentation
	// Access at: http://localhost:3000/swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

// healthCheckHandler is a simple health check endpoint
// Returns 200 OK if the service is running
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
