// Package survey holds the location form state machine: per-session form
// models, the country -> state -> city cascade, and prefill from country
// detection.
package survey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Form fields
const (
	FieldCountry     = "countryCode"
	FieldPhone       = "phoneNumber"
	FieldState       = "state"
	FieldCity        = "city"
	FieldCountryIso  = "countryIso"
	FieldCountryFlag = "countryFlag"
)

// Change origins, used for logging and metrics
const (
	OriginUser    = "user"
	OriginDetect  = "detect"
	OriginCascade = "cascade"
)

// Placeholders shown while a dependent field has nothing to pick from
const (
	PlaceholderSelectCountryFirst = "Select a country first"
	PlaceholderSelectState        = "Select a state..."
	PlaceholderSelectStateFirst   = "Select a state first"
	PlaceholderSelectCity         = "Select a city..."
)

var (
	// ErrUnknownField is returned for names that are not form fields
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned when a user tries to set a derived field
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrInvalidChoice is returned for values outside the field's choices
	ErrInvalidChoice = errors.New("value is not one of the field's choices")
)

var fieldOrder = []string{FieldCountry, FieldPhone, FieldState, FieldCity, FieldCountryIso, FieldCountryFlag}

// Choice is one option of a dropdown field
type Choice struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Change describes one value transition
type Change struct {
	Field  string
	Old    string
	New    string
	Origin string
}

// Listener reacts to value changes. Listeners run synchronously on the
// goroutine that made the change and may change other fields.
type Listener func(ctx context.Context, change Change)

// FieldSnapshot is the rendered state of one field
type FieldSnapshot struct {
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
}

// Snapshot is a point-in-time copy of every field
type Snapshot struct {
	Fields map[string]FieldSnapshot `json:"fields"`
}

// Model is the form model of one session: values, dropdown choices,
// placeholders and value-changed subscriptions. Safe for concurrent use.
type Model struct {
	mu           sync.Mutex
	values       map[string]string
	choices      map[string][]Choice
	placeholders map[string]string

	listeners  map[int]Listener
	nextListen int
}

// NewModel creates an empty form whose country dropdown offers countries
func NewModel(countries []Choice) *Model {
	m := &Model{
		values:       make(map[string]string, len(fieldOrder)),
		choices:      make(map[string][]Choice),
		placeholders: make(map[string]string),
		listeners:    make(map[int]Listener),
	}

	for _, f := range fieldOrder {
		m.values[f] = ""
	}

	m.choices[FieldCountry] = append([]Choice(nil), countries...)
	m.placeholders[FieldState] = PlaceholderSelectCountryFirst
	m.placeholders[FieldCity] = PlaceholderSelectStateFirst

	return m
}

// IsField reports whether name is a field of the form
func IsField(name string) bool {
	for _, f := range fieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// Subscribe registers fn for value changes and returns its unsubscribe func
func (m *Model) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextListen
	m.nextListen++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Listeners returns the number of active subscriptions
func (m *Model) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// Value returns the current value of a field
func (m *Model) Value(field string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[field]
}

// Values returns a copy of every value
func (m *Model) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Choices returns a copy of the field's choices
func (m *Model) Choices(field string) []Choice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Choice(nil), m.choices[field]...)
}

// Placeholder returns the field's placeholder text
func (m *Model) Placeholder(field string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeholders[field]
}

// SetChoices replaces the field's choices and placeholder. Listeners are
// not notified: choices are not values.
func (m *Model) SetChoices(field string, choices []Choice, placeholder string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(choices) == 0 {
		delete(m.choices, field)
	} else {
		m.choices[field] = append([]Choice(nil), choices...)
	}
	m.placeholders[field] = placeholder
}

// SetValue changes a field and notifies listeners when the value differs.
// Fields with a non-empty choice list only accept "" or one of the choices.
func (m *Model) SetValue(ctx context.Context, field, value, origin string) (bool, error) {
	return m.set(ctx, field, value, origin, false)
}

// SetIfEmpty behaves like SetValue but leaves a non-empty field untouched
func (m *Model) SetIfEmpty(ctx context.Context, field, value, origin string) (bool, error) {
	return m.set(ctx, field, value, origin, true)
}

func (m *Model) set(ctx context.Context, field, value, origin string, onlyIfEmpty bool) (bool, error) {
	m.mu.Lock()

	old, ok := m.values[field]
	if !ok {
		m.mu.Unlock()
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if old == value || (onlyIfEmpty && old != "") {
		m.mu.Unlock()
		return false, nil
	}
	if value != "" && !hasChoice(m.choices[field], value) {
		m.mu.Unlock()
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidChoice, field, value)
	}

	m.values[field] = value

	listeners := make([]Listener, 0, len(m.listeners))
	for _, id := range sortedIDs(m.listeners) {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	change := Change{Field: field, Old: old, New: value, Origin: origin}
	for _, fn := range listeners {
		fn(ctx, change)
	}

	return true, nil
}

// Snapshot copies the whole form
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make(map[string]FieldSnapshot, len(fieldOrder))
	for _, f := range fieldOrder {
		fields[f] = FieldSnapshot{
			Value:       m.values[f],
			Placeholder: m.placeholders[f],
			Choices:     append([]Choice(nil), m.choices[f]...),
		}
	}
	return Snapshot{Fields: fields}
}

// hasChoice treats an empty list as free text
func hasChoice(choices []Choice, value string) bool {
	if len(choices) == 0 {
		return true
	}
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// sortedIDs keeps notification order equal to subscription order
func sortedIDs(listeners map[int]Listener) []int {
	ids := make([]int, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
