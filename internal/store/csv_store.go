package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/evyataryagoni/locationsurvey/internal/models"
)

// CSVStore implements CityStore using a CSV file loaded into memory
//
// CSV Format: country,state,city (with a header row)
// Example: US,CA,San Francisco
type CSVStore struct {
	// data maps "COUNTRY|STATE" to the cities of that state, sorted by name
	data map[string][]models.City
}

// NewCSVStore creates a new CSV store by reading a CSV file
func NewCSVStore(filePath string) (*CSVStore, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return NewCSVStoreFromReader(file)
}

// NewCSVStoreFromReader parses country,state,city records from r
func NewCSVStoreFromReader(r io.Reader) (*CSVStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	store := &CSVStore{
		data: make(map[string][]models.City),
	}

	for i, record := range records {
		// Skip header row
		if i == 0 {
			continue
		}

		// Skip invalid records instead of failing
		if len(record) != 3 {
			continue
		}

		country, state := normalizeCodes(record[0], record[1])
		name := strings.TrimSpace(record[2])
		if country == "" || state == "" || name == "" {
			continue
		}

		k := cityKey(country, state)
		store.data[k] = append(store.data[k], models.City{
			Name:        name,
			StateCode:   state,
			CountryCode: country,
		})
	}

	for _, cities := range store.data {
		sort.Slice(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	}

	return store, nil
}

// FindCities looks up the cities of a state
func (s *CSVStore) FindCities(countryCode, stateCode string) ([]models.City, error) {
	country, state := normalizeCodes(countryCode, stateCode)

	cities, exists := s.data[cityKey(country, state)]
	if !exists {
		return nil, ErrNotFound
	}

	out := make([]models.City, len(cities))
	copy(out, cities)
	return out, nil
}

// All returns every record, used to seed other backends
func (s *CSVStore) All() []models.City {
	var all []models.City
	for _, cities := range s.data {
		all = append(all, cities...)
	}
	return all
}

// Close cleans up resources
// For CSV store, there's nothing to clean up (all data is in memory)
func (s *CSVStore) Close() error {
	return nil
}

func cityKey(country, state string) string {
	return country + "|" + state
}
