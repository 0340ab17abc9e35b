package survey

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is the validated answer set of a form
type Submission struct {
	CountryCode string `json:"countryCode" validate:"required,iso3166_1_alpha2"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	State       string `json:"state" validate:"required"`
	City        string `json:"city" validate:"required,max=128"`
	CountryIso  string `json:"countryIso,omitempty"`
	CountryFlag string `json:"countryFlag,omitempty"`
}

// ValidationError maps field names to what is wrong with them
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// newValidator reports fields by their form name instead of the Go name
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Submit validates the current answers. Every visible field is required,
// the phone number must be international (spaces, dashes, dots and
// parentheses are ignored) and the state must belong to the country when
// the country has states.
func (c *Controller) Submit() (Submission, error) {
	c.editMu.Lock()
	defer c.editMu.Unlock()

	model := c.Model()
	values := model.Values()

	submission := Submission{
		CountryCode: values[FieldCountry],
		PhoneNumber: compactPhone(values[FieldPhone]),
		State:       values[FieldState],
		City:        strings.TrimSpace(values[FieldCity]),
		CountryIso:  values[FieldCountryIso],
		CountryFlag: values[FieldCountryFlag],
	}

	fields := make(map[string]string)

	if err := c.validator.Struct(submission); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return Submission{}, fmt.Errorf("failed to validate submission: %w", err)
		}
		for _, fe := range validationErrors {
			fields[fe.Field()] = describe(fe)
		}
	}

	if _, bad := fields[FieldState]; !bad && submission.State != "" {
		if states := model.Choices(FieldState); len(states) > 0 && !hasChoice(states, submission.State) {
			fields[FieldState] = fmt.Sprintf("must be a state of %s", submission.CountryCode)
		}
	}

	if len(fields) > 0 {
		c.countSubmission("rejected")
		c.log().Info().Interface("fields", fields).Msg("Form submission rejected")
		return Submission{}, &ValidationError{Fields: fields}
	}

	c.countSubmission("accepted")
	c.log().Info().
		Str("country_code", submission.CountryCode).
		Str("state", submission.State).
		Msg("Form submitted")

	return submission, nil
}

func (c *Controller) countSubmission(result string) {
	if c.metrics != nil {
		c.metrics.FormSubmissions.WithLabelValues(result).Inc()
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "iso3166_1_alpha2":
		return "must be an ISO 3166-1 alpha-2 country code"
	case "e164":
		return "must be an international phone number, e.g. +14155550100"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func compactPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, phone)
}
