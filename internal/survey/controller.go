package survey

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/go-playground/validator/v10"
)

// Locations is the reference data the cascade reads from.
// *refdata.Catalog satisfies it.
type Locations interface {
	Countries() []models.Country
	Country(code string) (models.Country, error)
	States(countryCode string) ([]models.State, error)
	Cities(ctx context.Context, countryCode, stateCode string) ([]models.City, error)
}

// Controller owns the form model of one UI session
//
// Lifecycle:
//   - NewController wires collaborators, nothing else
//   - Model() constructs the form model exactly once
//   - Mount subscribes the cascade and starts one detection call
//   - Unmount releases the subscriptions and drops late detections
type Controller struct {
	locations Locations
	detector  Detector
	validator *validator.Validate
	metrics   *metrics.Metrics // optional, can be nil
	logger    atomic.Pointer[logger.Logger]

	initOnce sync.Once
	model    *Model

	// editMu serializes a value change with its cascade, so concurrent
	// edits and the mount-time detection never interleave
	editMu sync.Mutex

	mu          sync.Mutex
	mounted     bool
	unmounted   bool
	unsubscribe []func()
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewController creates a controller for one session
//
// Parameters:
//   - locations: reference data for choices and the cascade
//   - detector: country detection for prefill (nil disables prefill)
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewController(locations Locations, detector Detector, m *metrics.Metrics, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewDefault()
	}

	c := &Controller{
		locations: locations,
		detector:  detector,
		validator: newValidator(),
		metrics:   m,
	}
	c.logger.Store(log.WithComponent("SurveyController"))

	return c
}

func (c *Controller) log() *logger.Logger {
	return c.logger.Load()
}

// bindSession tags every later log line with the session id
func (c *Controller) bindSession(id string) {
	c.logger.Store(c.log().WithSession(id))
}

// Model returns the form model, constructing it on first use
func (c *Controller) Model() *Model {
	c.initOnce.Do(func() {
		countries := c.locations.Countries()
		choices := make([]Choice, 0, len(countries))
		for _, country := range countries {
			choices = append(choices, Choice{Value: country.Code, Text: country.Name})
		}
		c.model = NewModel(choices)
	})
	return c.model
}

// Mount subscribes the cascade handlers and starts the asynchronous
// detection. The returned channel is closed once detection has finished
// (or immediately without a detector). Mounting twice returns the same
// channel; mounting after Unmount returns a closed channel.
func (c *Controller) Mount(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mounted || c.unmounted {
		if c.done == nil {
			c.done = make(chan struct{})
			close(c.done)
		}
		return c.done
	}
	c.mounted = true

	model := c.Model()
	c.unsubscribe = append(c.unsubscribe, model.Subscribe(c.onValueChanged))

	if c.metrics != nil {
		c.metrics.FormSessionsActive.Inc()
	}

	c.done = make(chan struct{})
	if c.detector == nil {
		close(c.done)
		return c.done
	}

	ctx, c.cancel = context.WithCancel(ctx)
	go c.detect(ctx, c.done)

	return c.done
}

// Unmount releases subscriptions and cancels an in-flight detection.
// Safe to call more than once.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted {
		return
	}
	c.unmounted = true

	if c.cancel != nil {
		c.cancel()
	}
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil

	if c.mounted && c.metrics != nil {
		c.metrics.FormSessionsActive.Dec()
	}
}

// Mounted reports whether the controller is mounted and not yet unmounted
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted && !c.unmounted
}

// detect pre-fills the country once. Any failure leaves the field unset.
func (c *Controller) detect(ctx context.Context, done chan struct{}) {
	defer close(done)

	result, err := c.detector.Detect(ctx)
	if err != nil {
		c.log().Debug().Err(err).Msg("Country detection unavailable, leaving country unset")
		return
	}
	if !result.Usable() {
		c.log().Debug().Str("status", result.Status).Msg("Country detection not usable")
		return
	}

	c.editMu.Lock()
	defer c.editMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	// Dropped after unmount
	if c.unmounted || ctx.Err() != nil {
		return
	}

	changed, err := c.Model().SetIfEmpty(ctx, FieldCountry, result.CountryCode, OriginDetect)
	if err != nil {
		c.log().Warn().
			Err(err).
			Str("country_code", result.CountryCode).
			Msg("Detected country is not a form choice")
		return
	}
	if changed {
		c.log().Info().
			Str("country_code", result.CountryCode).
			Str("status", result.Status).
			Msg("Country pre-filled from detection")
	}
}

// SetValue applies a user edit. Derived fields are read-only.
func (c *Controller) SetValue(ctx context.Context, field, value string) error {
	if !IsField(field) {
		return ErrUnknownField
	}
	if field == FieldCountryIso || field == FieldCountryFlag {
		return ErrReadOnlyField
	}

	c.editMu.Lock()
	defer c.editMu.Unlock()

	_, err := c.Model().SetValue(ctx, field, value, OriginUser)
	return err
}

// Snapshot returns the current form state, never a half-applied cascade
func (c *Controller) Snapshot() Snapshot {
	c.editMu.Lock()
	defer c.editMu.Unlock()

	return c.Model().Snapshot()
}

func (c *Controller) onValueChanged(ctx context.Context, change Change) {
	if c.metrics != nil {
		c.metrics.FormFieldChanges.WithLabelValues(change.Field, change.Origin).Inc()
	}

	switch change.Field {
	case FieldCountry:
		c.onCountryChanged(ctx, change.New)
	case FieldState:
		c.onStateChanged(ctx, change.New)
	}
}

func (c *Controller) onCountryChanged(ctx context.Context, code string) {
	model := c.Model()

	var (
		phone, iso, flag string
		stateChoices     []Choice
		statePlaceholder = PlaceholderSelectCountryFirst
	)

	if code != "" {
		statePlaceholder = PlaceholderSelectState

		if country, err := c.locations.Country(code); err == nil {
			phone, iso, flag = country.DialCode, country.Code, country.Emoji
		}

		states, err := c.locations.States(code)
		if err != nil {
			c.log().Warn().Err(err).Str("country_code", code).Msg("Failed to load states")
		}
		for _, s := range states {
			stateChoices = append(stateChoices, Choice{Value: s.Code, Text: s.Name})
		}
	}

	// Choices first so the cleared values below are accepted
	model.SetChoices(FieldState, stateChoices, statePlaceholder)
	model.SetChoices(FieldCity, nil, PlaceholderSelectStateFirst)

	c.cascade(ctx, FieldPhone, phone)
	c.cascade(ctx, FieldCountryIso, iso)
	c.cascade(ctx, FieldCountryFlag, flag)
	c.cascade(ctx, FieldState, "")
	c.cascade(ctx, FieldCity, "")
}

func (c *Controller) onStateChanged(ctx context.Context, state string) {
	model := c.Model()
	country := model.Value(FieldCountry)

	var (
		cityChoices     []Choice
		cityPlaceholder = PlaceholderSelectStateFirst
	)

	if state != "" && country != "" {
		cityPlaceholder = PlaceholderSelectCity

		cities, err := c.locations.Cities(ctx, country, state)
		if err != nil {
			c.log().Warn().
				Err(err).
				Str("country_code", country).
				Str("state", state).
				Msg("Failed to load cities")
		}
		for _, city := range cities {
			cityChoices = append(cityChoices, Choice{Value: city.Name, Text: city.Name})
		}
	}

	model.SetChoices(FieldCity, cityChoices, cityPlaceholder)
	c.cascade(ctx, FieldCity, "")
}

func (c *Controller) cascade(ctx context.Context, field, value string) {
	if _, err := c.Model().SetValue(ctx, field, value, OriginCascade); err != nil {
		c.log().Error().Err(err).Str("field", field).Msg("Cascade update rejected")
	}
}
