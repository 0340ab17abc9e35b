package models

// Detection statuses returned by the country detection endpoint
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusError    = "error"
)

// GeoResult is the normalized answer of the country detection endpoint
// The endpoint always returns this shape with HTTP 200, even when every
// provider failed (Status is then "fallback" or "error")
type GeoResult struct {
	CountryCode string `json:"country_code"`       // ISO 3166-1 alpha-2 code
	IP          string `json:"ip,omitempty"`       // The address that was looked up
	Status      string `json:"status"`             // success, fallback or error
	Provider    string `json:"provider,omitempty"` // Which provider answered (success only)
	Error       string `json:"error,omitempty"`    // Only set when Status is "error"
}

// Usable reports whether the result carries a country code the form may use
func (r GeoResult) Usable() bool {
	return (r.Status == StatusSuccess || r.Status == StatusFallback) && r.CountryCode != ""
}

// Country is a static reference record looked up by its alpha-2 code
type Country struct {
	Code     string `json:"code"`      // ISO 3166-1 alpha-2
	Name     string `json:"name"`      // Common English name
	Emoji    string `json:"emoji"`     // Flag emoji
	DialCode string `json:"dial_code"` // International prefix, e.g. "+1"
}

// State is a first-level subdivision of a country
type State struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// City belongs to a (country, state) pair
type City struct {
	Name        string `json:"name"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"` // Error message
}

// ValidationErrorResponse lists the fields that failed validation
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
