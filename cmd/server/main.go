package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/cache"
	"github.com/evyataryagoni/locationsurvey/internal/clientip"
	"github.com/evyataryagoni/locationsurvey/internal/config"
	"github.com/evyataryagoni/locationsurvey/internal/geo"
	"github.com/evyataryagoni/locationsurvey/internal/handler"
	"github.com/evyataryagoni/locationsurvey/internal/limiter"
	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	"github.com/evyataryagoni/locationsurvey/internal/refdata"
	"github.com/evyataryagoni/locationsurvey/internal/router"
	"github.com/evyataryagoni/locationsurvey/internal/service"
	"github.com/evyataryagoni/locationsurvey/internal/store"
	"github.com/evyataryagoni/locationsurvey/internal/survey"
)

const userAgent = "locationsurvey/1.0"

// @title           Location Survey API
// @version         1.0
// @description     Location survey backend: country detection from the caller's IP, form sessions with country/state/city cascades, and location reference data
// @termsOfService  http://swagger.io/terms/

// @contact.name   Evyatar Yagoni
// @contact.email  evyatar@example.com

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	cityStore := setupCityStore(appConfig, appLogger)
	defer cityStore.Close()

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	geoService := setupGeoService(appConfig, metricsCollector, appLogger)
	defer geoService.Close()

	catalog := refdata.NewCatalog(cityStore, appConfig.DatastoreType, metricsCollector, appLogger)

	registry := survey.NewRegistry(appConfig.SessionIdleTimeout, appLogger)
	defer registry.Close()
	go registry.Run(ctx, time.Minute)

	newController := setupControllerFactory(appConfig, geoService, catalog, metricsCollector, appLogger)

	appRouter := router.SetupRouter(router.Handlers{
		Geo:     handler.NewGeoHandler(geoService, appConfig.DefaultCountry, appLogger),
		RefData: handler.NewRefDataHandler(catalog, appLogger),
		Forms:   handler.NewFormHandler(registry, newController, appLogger),
	}, rateLimiter, metricsCollector, appLogger, router.Options{
		CORSAllowedOrigins: appConfig.CORSAllowedOrigins,
		TrustProxyHeaders:  appConfig.TrustProxyHeaders,
	})

	// Start server
	startServer(ctx, appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting Location Survey Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("datastore_type", appConfig.DatastoreType).
		Str("datastore_path", appConfig.DatastorePath).
		Str("geo_cache_type", appConfig.GeoCacheType).
		Str("default_country", appConfig.DefaultCountry).
		Msg("Configuration loaded")

	return appLogger
}

// setupCityStore initializes the city store based on configuration
// Supports CSV, MySQL, and Redis backends
func setupCityStore(appConfig *config.Config, log *logger.Logger) store.CityStore {
	switch appConfig.DatastoreType {
	case "csv":
		csvStore, err := store.NewCSVStore(appConfig.DatastorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CSV store")
		}
		fmt.Println("✅ CSV store initialized")
		return csvStore

	case "mysql":
		mysqlStore, err := store.NewMySQLStore(appConfig.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MySQL store")
		}
		if err := mysqlStore.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate MySQL store")
		}
		fmt.Println("✅ MySQL store initialized")
		return mysqlStore

	case "redis":
		redisStore, err := store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis store")
		}
		fmt.Println("✅ Redis store initialized")

		// Auto-load data if Redis is empty
		loadRedisDataIfEmpty(redisStore, appConfig.DatastorePath, log)

		return redisStore

	default:
		log.Fatal().Str("type", appConfig.DatastoreType).Msg("Unknown datastore type")
	}

	return nil
}

// loadRedisDataIfEmpty checks if Redis is empty and loads the cities CSV
func loadRedisDataIfEmpty(redisStore *store.RedisStore, csvPath string, log *logger.Logger) {
	isEmpty, err := redisStore.IsEmpty()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check if Redis is empty")
		return
	}

	if isEmpty {
		fmt.Println("📦 Redis is empty, loading cities from CSV...")
		count, err := redisStore.LoadFromCSV(csvPath)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load city data")
			return
		}
		log.Info().Int("cities", count).Msg("City data loaded into Redis")
	}
}

// setupRateLimiter initializes the rate limiter
// Supports in-memory and Redis-based rate limiting
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:          appConfig.RateLimitType,
		Limit:         appConfig.RateLimit,
		Window:        time.Duration(appConfig.RateLimitWindow) * time.Second,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow)

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// setupGeoService wires the provider chain and the detection cache
func setupGeoService(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) *service.GeoService {
	geoCache, err := cache.New(cache.Config{
		Type:          appConfig.GeoCacheType,
		Size:          appConfig.GeoCacheSize,
		TTL:           appConfig.GeoCacheTTL,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize detection cache")
	}

	// Each provider gets its own quota
	providers := geo.Chain{
		geo.NewIPAPI(
			geo.NewHTTPClient(nil, userAgent, appConfig.ProviderTimeout, appConfig.ProviderRatePerMin),
			appConfig.PrimaryProviderURL,
		),
		geo.NewIPAPICom(
			geo.NewHTTPClient(nil, userAgent, appConfig.ProviderTimeout, appConfig.ProviderRatePerMin),
			appConfig.SecondaryProviderURL,
		),
	}

	return service.NewGeoService(providers, geoCache, service.GeoServiceConfig{
		DefaultIP:      appConfig.DefaultLookupIP,
		DefaultCountry: appConfig.DefaultCountry,
	}, m, log)
}

// setupControllerFactory picks how form sessions detect the caller's
// country: in process, or through a separately deployed detection service
func setupControllerFactory(appConfig *config.Config, geoService *service.GeoService, catalog *refdata.Catalog, m *metrics.Metrics, log *logger.Logger) handler.ControllerFactory {
	if appConfig.DetectorURL == "" {
		return func(r *http.Request) *survey.Controller {
			detector := survey.ResolverDetector{Resolver: geoService, ClientIP: clientip.FromRequest(r)}
			return survey.NewController(catalog, detector, m, log)
		}
	}

	log.Info().Str("detector_url", appConfig.DetectorURL).Msg("Form prefill uses the remote detection service")
	client := &http.Client{Timeout: appConfig.ProviderTimeout * 2}

	return func(r *http.Request) *survey.Controller {
		detector := survey.NewHTTPDetector(client, appConfig.DetectorURL, clientip.FromRequest(r))
		return survey.NewController(catalog, detector, m, log)
	}
}

// startServer serves until ctx is cancelled, then drains in-flight requests
func startServer(ctx context.Context, appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("port", appConfig.Port).
		Str("detect_endpoint", "http://localhost:"+appConfig.Port+"/api/detect-country").
		Str("forms_endpoint", "http://localhost:"+appConfig.Port+"/v1/forms").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Str("swagger", "http://localhost:"+appConfig.Port+"/swagger/index.html").
		Msg("Server is running")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
