package survey

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func fillForm(t *testing.T, c *Controller, values ...string) {
	t.Helper()

	fields := []string{FieldCountry, FieldState, FieldCity, FieldPhone}
	for i, v := range values {
		if err := c.SetValue(context.Background(), fields[i], v); err != nil {
			t.Fatalf("failed to set %s: %v", fields[i], err)
		}
	}
}

// TestSubmit_Valid tests a complete form
func TestSubmit_Valid(t *testing.T) {
	c, _ := newTestController(nil)
	mountAndWait(t, c)
	fillForm(t, c, "US", "CA", "San Francisco", "+1 (415) 555-0100")

	submission, err := c.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if submission.PhoneNumber != "+14155550100" {
		t.Errorf("expected compact phone, got %s", submission.PhoneNumber)
	}
	if submission.CountryCode != "US" || submission.State != "CA" || submission.City != "San Francisco" {
		t.Errorf("unexpected submission: %+v", submission)
	}
	if submission.CountryIso != "US" {
		t.Errorf("expected derived iso US, got %s", submission.CountryIso)
	}
}

// TestSubmit_Empty tests that every field is required
func TestSubmit_Empty(t *testing.T) {
	c, _ := newTestController(nil)

	_, err := c.Submit()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{FieldCountry, FieldPhone, FieldState, FieldCity} {
		if verr.Fields[f] != "is required" {
			t.Errorf("expected %s to be required, got %q", f, verr.Fields[f])
		}
	}
	if !strings.HasPrefix(verr.Error(), "validation failed: ") {
		t.Errorf("unexpected error text: %s", verr.Error())
	}
}

// TestSubmit_PrefixOnlyPhone tests that the dial prefix alone is not a number
func TestSubmit_PrefixOnlyPhone(t *testing.T) {
	c, _ := newTestController(nil)
	mountAndWait(t, c)
	fillForm(t, c, "US", "CA", "San Francisco")

	_, err := c.Submit()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields[FieldPhone]; !ok {
		t.Errorf("expected phone error, got %v", verr.Fields)
	}
	if len(verr.Fields) != 1 {
		t.Errorf("expected only the phone to fail, got %v", verr.Fields)
	}
}

// TestSubmit_StateOutsideCountry tests the state membership check
func TestSubmit_StateOutsideCountry(t *testing.T) {
	c, _ := newTestController(nil)
	mountAndWait(t, c)
	fillForm(t, c, "US", "CA", "San Francisco", "+14155550100")

	// Bypass the cascade to simulate stale state
	c.Model().SetChoices(FieldState, []Choice{{Value: "NY", Text: "New York"}}, PlaceholderSelectState)

	_, err := c.Submit()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields[FieldState] != "must be a state of US" {
		t.Errorf("unexpected state error: %q", verr.Fields[FieldState])
	}
}

// TestSubmit_CountryWithoutStates tests free text state
func TestSubmit_CountryWithoutStates(t *testing.T) {
	c, _ := newTestController(nil)
	mountAndWait(t, c)
	fillForm(t, c, "AQ", "Ross Dependency", "McMurdo", "+672 12345678")

	if _, err := c.Submit(); err != nil {
		t.Errorf("expected free text state to pass, got %v", err)
	}
}

// TestSubmit_Metrics tests accepted and rejected counters
func TestSubmit_Metrics(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := NewController(&fakeLocations{}, nil, m, logger.Nop())
	mountAndWait(t, c)

	c.Submit()
	fillForm(t, c, "US", "NY", "New York City", "+12125550100")
	c.Submit()

	if got := testutil.ToFloat64(m.FormSubmissions.WithLabelValues("rejected")); got != 1 {
		t.Errorf("expected 1 rejected submission, got %v", got)
	}
	if got := testutil.ToFloat64(m.FormSubmissions.WithLabelValues("accepted")); got != 1 {
		t.Errorf("expected 1 accepted submission, got %v", got)
	}
}
