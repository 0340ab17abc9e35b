package store

import (
	"errors"
	"strings"

	"github.com/evyataryagoni/locationsurvey/internal/models"
)

// ErrNotFound is returned when a (country, state) pair has no cities
var ErrNotFound = errors.New("no cities found")

// CityStore defines the interface for city lookups
// Allows multiple implementations (CSV, MySQL, Redis) and easy testing with mocks
type CityStore interface {
	// FindCities returns the cities of a state, sorted by name
	FindCities(countryCode, stateCode string) ([]models.City, error)

	// Close cleans up resources (database connections, file handles, etc.)
	Close() error
}

// normalizeCodes upper-cases and trims both codes so "us"/" ca" and
// "US"/"CA" hit the same records.
func normalizeCodes(countryCode, stateCode string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(countryCode)), strings.ToUpper(strings.TrimSpace(stateCode))
}
