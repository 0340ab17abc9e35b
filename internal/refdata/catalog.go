// Package refdata serves the read-only location reference data the survey
// form cascades over: countries and their states from gountries, cities
// from a store.CityStore.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/evyataryagoni/locationsurvey/internal/store"
	"github.com/pariz/gountries"
)

var (
	// ErrUnknownCountry is returned for codes that are not ISO 3166-1 alpha-2
	ErrUnknownCountry = errors.New("unknown country")

	// ErrUnknownState is returned for subdivisions the country does not have
	ErrUnknownState = errors.New("unknown state")
)

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	countries []models.Country
	byCode    map[string]models.Country
	states    map[string][]models.State

	cities    store.CityStore
	datastore string
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewCatalog builds the country and state tables from gountries
//
// Parameters:
//   - cities: city backend (nil means no city has any data)
//   - datastore: backend name used as a metrics label
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewCatalog(cities store.CityStore, datastore string, m *metrics.Metrics, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.NewDefault()
	}

	c := &Catalog{
		byCode:    make(map[string]models.Country),
		states:    make(map[string][]models.State),
		cities:    cities,
		datastore: datastore,
		metrics:   m,
		logger:    log.WithComponent("Catalog"),
	}

	query := gountries.New()
	for code, country := range query.Countries {
		code = strings.ToUpper(code)
		if len(code) != 2 {
			continue
		}

		record := models.Country{
			Code:  code,
			Name:  country.Name.Common,
			Emoji: flagEmoji(code),
		}
		if len(country.CallingCodes) > 0 && country.CallingCodes[0] != "" {
			record.DialCode = "+" + strings.TrimPrefix(country.CallingCodes[0], "+")
		}

		c.byCode[code] = record
		c.countries = append(c.countries, record)
		c.states[code] = statesOf(code, country)
	}

	sort.Slice(c.countries, func(i, j int) bool {
		return c.countries[i].Name < c.countries[j].Name
	})

	return c
}

func statesOf(code string, country gountries.Country) []models.State {
	subdivisions := country.SubDivisions()

	states := make([]models.State, 0, len(subdivisions))
	for _, sub := range subdivisions {
		if sub.Code == "" {
			continue
		}
		states = append(states, models.State{
			Code:        strings.ToUpper(sub.Code),
			Name:        sub.Name,
			CountryCode: code,
		})
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}

// flagEmoji maps an alpha-2 code to its pair of regional indicator symbols
func flagEmoji(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// Countries returns every country sorted by name
func (c *Catalog) Countries() []models.Country {
	out := make([]models.Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// Country looks up one country by its alpha-2 code (case-insensitive)
func (c *Catalog) Country(code string) (models.Country, error) {
	country, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return models.Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}
	return country, nil
}

// States returns the subdivisions of a country sorted by name.
// A known country without subdivisions returns an empty slice.
func (c *Catalog) States(countryCode string) ([]models.State, error) {
	country, err := c.Country(countryCode)
	if err != nil {
		return nil, err
	}

	states := c.states[country.Code]
	out := make([]models.State, len(states))
	copy(out, states)
	return out, nil
}

// State looks up one subdivision of a country
func (c *Catalog) State(countryCode, stateCode string) (models.State, error) {
	states, err := c.States(countryCode)
	if err != nil {
		return models.State{}, err
	}

	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	for _, s := range states {
		if s.Code == stateCode {
			return s, nil
		}
	}
	return models.State{}, fmt.Errorf("%w: %q", ErrUnknownState, stateCode)
}

// Cities returns the cities of (country, state) sorted by name.
// A state the store has no data for yields an empty slice, not an error.
func (c *Catalog) Cities(ctx context.Context, countryCode, stateCode string) ([]models.City, error) {
	if _, err := c.State(countryCode, stateCode); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.cities == nil {
		return []models.City{}, nil
	}

	start := time.Now()
	cities, err := c.cities.FindCities(countryCode, stateCode)
	duration := time.Since(start)

	status := "hit"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = "not_found"
		cities, err = []models.City{}, nil
	case err != nil:
		status = "error"
		c.logger.Error().
			Err(err).
			Str("country_code", countryCode).
			Str("state", stateCode).
			Msg("City store query failed")
	}

	if c.metrics != nil {
		c.metrics.CityQueriesTotal.WithLabelValues(c.datastore, status).Inc()
		c.metrics.CityQueryDuration.WithLabelValues(c.datastore).Observe(duration.Seconds())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}
	return cities, nil
}
