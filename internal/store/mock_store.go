package store

import "github.com/evyataryagoni/locationsurvey/internal/models"

// MockStore is a test double for the CityStore interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	// Data maps "COUNTRY|STATE" to city names
	Data map[string][]string

	// Track method calls for verification in tests
	FindCitiesCalls [][2]string
	CloseCalled     bool

	// Control behavior for error scenarios
	FindCitiesError error
	CloseError      error
}

// NewMockStore creates a mock store with a few US and French cities
func NewMockStore() *MockStore {
	return &MockStore{
		Data: map[string][]string{
			"US|CA":  {"Los Angeles", "San Diego", "San Francisco"},
			"US|NY":  {"Buffalo", "New York City"},
			"FR|IDF": {"Paris", "Versailles"},
		},
		FindCitiesCalls: [][2]string{},
	}
}

// FindCities implements the CityStore interface
func (m *MockStore) FindCities(countryCode, stateCode string) ([]models.City, error) {
	m.FindCitiesCalls = append(m.FindCitiesCalls, [2]string{countryCode, stateCode})

	if m.FindCitiesError != nil {
		return nil, m.FindCitiesError
	}

	country, state := normalizeCodes(countryCode, stateCode)
	names, exists := m.Data[cityKey(country, state)]
	if !exists {
		return nil, ErrNotFound
	}

	cities := make([]models.City, 0, len(names))
	for _, name := range names {
		cities = append(cities, models.City{Name: name, StateCode: state, CountryCode: country})
	}
	return cities, nil
}

// Close implements the CityStore interface
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
