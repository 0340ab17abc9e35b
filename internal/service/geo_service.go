package service

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/cache"
	"github.com/evyataryagoni/locationsurvey/internal/clientip"
	"github.com/evyataryagoni/locationsurvey/internal/geo"
	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/go-playground/validator/v10"
)

// GeoServiceConfig holds the degradation defaults
type GeoServiceConfig struct {
	DefaultIP      string // Looked up instead of empty/loopback client addresses
	DefaultCountry string // Returned when no provider could answer
}

// GeoService resolves a caller's country for pre-filling the survey
//
// Responsibilities:
//   - Normalize the client address (loopback/empty -> default address)
//   - Serve repeated addresses from the cache
//   - Walk the provider chain (primary, then secondary)
//   - Degrade to the default country instead of failing
//
// Detect never returns an error: geolocation only pre-fills a form field,
// so a guessed default is always preferable to blocking the caller.
type GeoService struct {
	providers geo.Chain
	cache     cache.GeoCache
	cfg       GeoServiceConfig
	validator *validator.Validate
	metrics   *metrics.Metrics // optional, can be nil
	logger    *logger.Logger
}

// NewGeoService creates a new detection service
//
// Parameters:
//   - providers: ordered provider strategies, tried first to last
//   - c: result cache (nil disables caching)
//   - cfg: degradation defaults
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewGeoService(providers geo.Chain, c cache.GeoCache, cfg GeoServiceConfig, m *metrics.Metrics, log *logger.Logger) *GeoService {
	if log == nil {
		log = logger.NewDefault()
	}
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.DefaultIP == "" {
		cfg.DefaultIP = "8.8.8.8"
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "US"
	}

	return &GeoService{
		providers: providers,
		cache:     c,
		cfg:       cfg,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("GeoService"),
	}
}

// Detect maps a raw client address to a best-effort country
//
// Flow:
//  1. Normalize the address
//  2. Return a cached success if there is one
//  3. Try each provider in order, stopping at the first success
//  4. Fall back to the default country when every provider failed
//  5. Convert any panic into an "error" result with the default country
func (s *GeoService) Detect(ctx context.Context, candidate string) (result models.GeoResult) {
	ip := clientip.Normalize(candidate, s.cfg.DefaultIP)
	log := s.logger.WithIP(ip)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Country detection panicked")
			result = models.GeoResult{
				CountryCode: s.cfg.DefaultCountry,
				IP:          ip,
				Status:      models.StatusError,
				Error:       fmt.Sprintf("internal error: %v", r),
			}
			s.countDetection(result.Status)
		}
	}()

	if err := s.validator.Var(ip, "ip"); err != nil {
		// Still asked: the provider is the authority on what it accepts
		log.Warn().Str("candidate", candidate).Msg("Client address is not a valid IP")
	}

	if cached, ok := s.cache.Get(ctx, ip); ok {
		s.countCache("hit")
		log.Debug().Str("country_code", cached.CountryCode).Msg("Detection served from cache")
		s.countDetection(cached.Status)
		return *cached
	}
	s.countCache("miss")

	outcome, attempts := s.lookup(ctx, ip)
	for _, attempt := range attempts {
		if attempt.Err != nil {
			log.Warn().
				Err(attempt.Err).
				Str("provider", attempt.Provider).
				Str("outcome", attempt.Kind.String()).
				Msg("Geolocation provider did not answer")
		}
	}

	if !outcome.OK() {
		log.Info().
			Str("country_code", s.cfg.DefaultCountry).
			Int("attempts", len(attempts)).
			Msg("All providers failed, using default country")

		result = models.GeoResult{
			CountryCode: s.cfg.DefaultCountry,
			IP:          ip,
			Status:      models.StatusFallback,
		}
		s.countDetection(result.Status)
		return result
	}

	result = models.GeoResult{
		CountryCode: outcome.CountryCode,
		IP:          outcome.IP,
		Status:      models.StatusSuccess,
		Provider:    outcome.Provider,
	}

	if err := s.cache.Set(ctx, ip, result); err != nil {
		log.Warn().Err(err).Msg("Failed to cache detection")
	}

	log.Info().
		Str("country_code", result.CountryCode).
		Str("provider", result.Provider).
		Msg("Country detected")
	s.countDetection(result.Status)

	return result
}

// lookup runs the chain, recording per-provider metrics
func (s *GeoService) lookup(ctx context.Context, ip string) (geo.Outcome, []geo.Outcome) {
	if s.metrics == nil {
		return s.providers.Lookup(ctx, ip)
	}

	instrumented := make(geo.Chain, len(s.providers))
	for i, p := range s.providers {
		instrumented[i] = instrumentedProvider{Provider: p, metrics: s.metrics}
	}

	return instrumented.Lookup(ctx, ip)
}

func (s *GeoService) countDetection(status string) {
	if s.metrics != nil {
		s.metrics.DetectionsTotal.WithLabelValues(status).Inc()
	}
}

func (s *GeoService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.GeoCacheLookups.WithLabelValues(result).Inc()
	}
}

// Fallback answers without asking any provider, e.g. when the caller is
// over its request budget
func (s *GeoService) Fallback(candidate string) models.GeoResult {
	result := models.GeoResult{
		CountryCode: s.cfg.DefaultCountry,
		IP:          clientip.Normalize(candidate, s.cfg.DefaultIP),
		Status:      models.StatusFallback,
	}
	s.countDetection(result.Status)
	return result
}

// Close releases the cache
func (s *GeoService) Close() error {
	return s.cache.Close()
}

type instrumentedProvider struct {
	geo.Provider
	metrics *metrics.Metrics
}

func (p instrumentedProvider) Lookup(ctx context.Context, ip string) geo.Outcome {
	start := time.Now()
	outcome := p.Provider.Lookup(ctx, ip)

	p.metrics.ProviderRequestDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	p.metrics.ProviderRequestsTotal.WithLabelValues(p.Name(), outcome.Kind.String()).Inc()

	return outcome
}
