package handler

import (
	"fmt"
	"net/http"

	"github.com/evyataryagoni/locationsurvey/internal/clientip"
	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/evyataryagoni/locationsurvey/internal/service"
)

// GeoHandler serves country detection
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Read the client address from forwarding headers
//   - Call the detection service
//   - Always answer 200 with a parseable GeoResult
type GeoHandler struct {
	service        *service.GeoService
	defaultCountry string
	logger         *logger.Logger
}

// NewGeoHandler creates a new detection handler
func NewGeoHandler(svc *service.GeoService, defaultCountry string, log *logger.Logger) *GeoHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	if defaultCountry == "" {
		defaultCountry = "US"
	}

	return &GeoHandler{
		service:        svc,
		defaultCountry: defaultCountry,
		logger:         log.WithComponent("GeoHandler"),
	}
}

// DetectCountry handles GET /api/detect-country
// @Summary      Detect the caller's country
// @Description  Geolocates the first X-Forwarded-For address (else X-Real-IP). Loopback and missing addresses are replaced by a public default. Never fails: when every provider fails, or the caller is over its request budget, the default country is returned with status "fallback".
// @Tags         Detection
// @Produce      json
// @Param        X-Forwarded-For  header  string  false  "Client address chain"  example(1.2.3.4)
// @Success      200  {object}   models.GeoResult
// @Router       /api/detect-country [get]
func (h *GeoHandler) DetectCountry(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().Interface("panic", rec).Msg("Country detection handler panicked")
			respondJSON(w, http.StatusOK, models.GeoResult{
				CountryCode: h.defaultCountry,
				Status:      models.StatusError,
				Error:       fmt.Sprintf("internal error: %v", rec),
			})
		}
	}()

	result := h.service.Detect(r.Context(), clientip.FromRequest(r))
	respondJSON(w, http.StatusOK, result)
}

// Throttled answers callers over their request budget. The endpoint's
// contract stays 200 with a GeoResult, so the default country is returned
// as a fallback and no provider quota is spent.
func (h *GeoHandler) Throttled(w http.ResponseWriter, r *http.Request) {
	result := h.service.Fallback(clientip.FromRequest(r))
	h.logger.Debug().Str("ip", result.IP).Msg("Detection throttled, answering with fallback")
	respondJSON(w, http.StatusOK, result)
}
