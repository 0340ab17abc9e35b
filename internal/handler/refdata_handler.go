package handler

import (
	"errors"
	"net/http"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/refdata"
	"github.com/evyataryagoni/locationsurvey/internal/survey"
	"github.com/go-chi/chi/v5"
)

// RefDataHandler serves the read-only location reference data
type RefDataHandler struct {
	catalog *refdata.Catalog
	logger  *logger.Logger
}

// NewRefDataHandler creates a new reference data handler
func NewRefDataHandler(catalog *refdata.Catalog, log *logger.Logger) *RefDataHandler {
	if log == nil {
		log = logger.NewDefault()
	}

	return &RefDataHandler{
		catalog: catalog,
		logger:  log.WithComponent("RefDataHandler"),
	}
}

// ListCountries handles GET /v1/countries
// @Summary      List countries
// @Description  Every country sorted by name, with flag emoji and dial code
// @Tags         Reference Data
// @Produce      json
// @Success      200  {array}    models.Country
// @Router       /v1/countries [get]
func (h *RefDataHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Countries())
}

// GetCountry handles GET /v1/countries/{code}
// @Summary      Get a country
// @Tags         Reference Data
// @Produce      json
// @Param        code  path      string  true  "ISO 3166-1 alpha-2 code"  example(US)
// @Success      200   {object}  models.Country
// @Failure      404   {object}  models.ErrorResponse  "Unknown country"
// @Router       /v1/countries/{code} [get]
func (h *RefDataHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	country, err := h.catalog.Country(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown country")
		return
	}

	respondJSON(w, http.StatusOK, country)
}

// ListStates handles GET /v1/countries/{code}/states
// @Summary      List the states of a country
// @Tags         Reference Data
// @Produce      json
// @Param        code  path      string  true  "ISO 3166-1 alpha-2 code"  example(US)
// @Success      200   {array}   models.State
// @Failure      404   {object}  models.ErrorResponse  "Unknown country"
// @Router       /v1/countries/{code}/states [get]
func (h *RefDataHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.catalog.States(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown country")
		return
	}

	respondJSON(w, http.StatusOK, states)
}

// ListCities handles GET /v1/countries/{code}/states/{state}/cities
// @Summary      List the cities of a state
// @Description  A known state without city data returns an empty list
// @Tags         Reference Data
// @Produce      json
// @Param        code   path      string  true  "ISO 3166-1 alpha-2 code"  example(US)
// @Param        state  path      string  true  "Subdivision code"         example(CA)
// @Success      200    {array}   models.City
// @Failure      404    {object}  models.ErrorResponse  "Unknown country or state"
// @Failure      500    {object}  models.ErrorResponse  "Internal server error"
// @Router       /v1/countries/{code}/states/{state}/cities [get]
func (h *RefDataHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.catalog.Cities(r.Context(), chi.URLParam(r, "code"), chi.URLParam(r, "state"))
	if err != nil {
		switch {
		case errors.Is(err, refdata.ErrUnknownCountry):
			respondError(w, http.StatusNotFound, "Unknown country")
		case errors.Is(err, refdata.ErrUnknownState):
			respondError(w, http.StatusNotFound, "Unknown state")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, cities)
}

// SurveyDefinition handles GET /v1/survey
// @Summary      Survey definition
// @Description  Static layout of the location panel for the client renderer
// @Tags         Survey
// @Produce      json
// @Success      200  {object}  survey.Definition
// @Router       /v1/survey [get]
func (h *RefDataHandler) SurveyDefinition(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, survey.NewDefinition(h.catalog.Countries()))
}
