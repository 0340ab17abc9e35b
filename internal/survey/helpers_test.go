package survey

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
)

// fakeLocations is a small, deterministic reference data set
type fakeLocations struct {
	mu             sync.Mutex
	countriesCalls int
	citiesError    error
}

var fakeCountries = []models.Country{
	{Code: "AQ", Name: "Antarctica", Emoji: "\U0001F1E6\U0001F1F6"},
	{Code: "FR", Name: "France", Emoji: "\U0001F1EB\U0001F1F7", DialCode: "+33"},
	{Code: "US", Name: "United States", Emoji: "\U0001F1FA\U0001F1F8", DialCode: "+1"},
}

var fakeStates = map[string][]models.State{
	"US": {
		{Code: "CA", Name: "California", CountryCode: "US"},
		{Code: "NY", Name: "New York", CountryCode: "US"},
		{Code: "TX", Name: "Texas", CountryCode: "US"},
	},
	"FR": {
		{Code: "IDF", Name: "Ile-de-France", CountryCode: "FR"},
	},
}

var fakeCities = map[string][]string{
	"US|CA": {"Los Angeles", "San Francisco"},
	"US|NY": {"New York City"},
}

func (f *fakeLocations) Countries() []models.Country {
	f.mu.Lock()
	f.countriesCalls++
	f.mu.Unlock()
	return append([]models.Country(nil), fakeCountries...)
}

func (f *fakeLocations) Country(code string) (models.Country, error) {
	for _, c := range fakeCountries {
		if c.Code == code {
			return c, nil
		}
	}
	return models.Country{}, errors.New("unknown country")
}

func (f *fakeLocations) States(countryCode string) ([]models.State, error) {
	if _, err := f.Country(countryCode); err != nil {
		return nil, err
	}
	return fakeStates[countryCode], nil
}

func (f *fakeLocations) Cities(ctx context.Context, countryCode, stateCode string) ([]models.City, error) {
	if f.citiesError != nil {
		return nil, f.citiesError
	}

	var cities []models.City
	for _, name := range fakeCities[countryCode+"|"+stateCode] {
		cities = append(cities, models.City{Name: name, StateCode: stateCode, CountryCode: countryCode})
	}
	return cities, nil
}

// slowLocations delays state lookups of one country so cascades overlap
type slowLocations struct {
	fakeLocations
	slowCountry string
	delay       time.Duration
}

func (s *slowLocations) States(countryCode string) ([]models.State, error) {
	if countryCode == s.slowCountry {
		time.Sleep(s.delay)
	}
	return s.fakeLocations.States(countryCode)
}

// fakeDetector returns a fixed answer
type fakeDetector struct {
	result models.GeoResult
	err    error
}

func (d fakeDetector) Detect(ctx context.Context) (models.GeoResult, error) {
	return d.result, d.err
}

// gatedDetector answers only once release is closed, ignoring ctx
type gatedDetector struct {
	release chan struct{}
	result  models.GeoResult
}

func (d gatedDetector) Detect(ctx context.Context) (models.GeoResult, error) {
	<-d.release
	return d.result, nil
}

func choiceValues(choices []Choice) []string {
	values := make([]string, 0, len(choices))
	for _, c := range choices {
		values = append(values, c.Value)
	}
	return values
}
