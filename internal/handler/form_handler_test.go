package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/clientip"
	"github.com/evyataryagoni/locationsurvey/internal/geo"
	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/evyataryagoni/locationsurvey/internal/refdata"
	"github.com/evyataryagoni/locationsurvey/internal/service"
	"github.com/evyataryagoni/locationsurvey/internal/store"
	"github.com/evyataryagoni/locationsurvey/internal/survey"
	"github.com/go-chi/chi/v5"
)

type formFixture struct {
	router   http.Handler
	registry *survey.Registry
	provider *geo.MockProvider
}

func newFormFixture(t *testing.T, provider *geo.MockProvider) *formFixture {
	t.Helper()

	catalog := refdata.NewCatalog(store.NewMockStore(), "mock", nil, logger.Nop())
	svc := service.NewGeoService(geo.Chain{provider}, nil, service.GeoServiceConfig{}, nil, logger.Nop())
	registry := survey.NewRegistry(time.Hour, logger.Nop())
	t.Cleanup(registry.Close)

	h := NewFormHandler(registry, func(r *http.Request) *survey.Controller {
		detector := survey.ResolverDetector{Resolver: svc, ClientIP: clientip.FromRequest(r)}
		return survey.NewController(catalog, detector, nil, logger.Nop())
	}, logger.Nop())

	r := chi.NewRouter()
	r.Post("/v1/forms", h.Create)
	r.Get("/v1/forms/{id}", h.Get)
	r.Delete("/v1/forms/{id}", h.Delete)
	r.Put("/v1/forms/{id}/fields/{field}", h.SetField)
	r.Post("/v1/forms/{id}/submit", h.Submit)

	return &formFixture{router: r, registry: registry, provider: provider}
}

func (f *formFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *formFixture) create(t *testing.T) FormResponse {
	t.Helper()

	rec := f.do(http.MethodPost, "/v1/forms", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeForm(t, rec)
}

func decodeForm(t *testing.T, rec *httptest.ResponseRecorder) FormResponse {
	t.Helper()

	var form FormResponse
	if err := json.NewDecoder(rec.Body).Decode(&form); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return form
}

// TestFormHandler_Create_Prefill tests session creation with detection
func TestFormHandler_Create_Prefill(t *testing.T) {
	f := newFormFixture(t, geo.NewMockProvider("ipapi", "US"))

	form := f.create(t)

	if form.ID == "" {
		t.Fatal("expected a session id")
	}
	if got := form.Fields[survey.FieldCountry].Value; got != "US" {
		t.Errorf("expected prefilled US, got %q", got)
	}
	if got := form.Fields[survey.FieldPhone].Value; got != "+1" {
		t.Errorf("expected phone +1, got %q", got)
	}
	if got := form.Fields[survey.FieldState].Placeholder; got != survey.PlaceholderSelectState {
		t.Errorf("expected state placeholder %q, got %q", survey.PlaceholderSelectState, got)
	}
	if len(f.provider.LookupCalls) != 1 || f.provider.LookupCalls[0] != "1.2.3.4" {
		t.Errorf("expected detection of the forwarded address, got %v", f.provider.LookupCalls)
	}
	if f.registry.Len() != 1 {
		t.Errorf("expected 1 session, got %d", f.registry.Len())
	}
}

// TestFormHandler_Create_FallbackPrefill tests prefill from a fallback result
func TestFormHandler_Create_FallbackPrefill(t *testing.T) {
	f := newFormFixture(t, geo.NewFailingMockProvider("ipapi", geo.ErrNetwork))

	form := f.create(t)

	if got := form.Fields[survey.FieldCountry].Value; got != "US" {
		t.Errorf("expected fallback US, got %q", got)
	}
}

// TestFormHandler_FullFlow tests the cascade and submission over HTTP
func TestFormHandler_FullFlow(t *testing.T) {
	f := newFormFixture(t, geo.NewMockProvider("ipapi", "US"))
	id := f.create(t).ID

	rec := f.do(http.MethodPut, "/v1/forms/"+id+"/fields/state", `{"value":"CA"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	form := decodeForm(t, rec)
	if got := len(form.Fields[survey.FieldCity].Choices); got != 3 {
		t.Errorf("expected 3 city choices, got %d", got)
	}
	if got := form.Fields[survey.FieldCity].Placeholder; got != survey.PlaceholderSelectCity {
		t.Errorf("expected city placeholder %q, got %q", survey.PlaceholderSelectCity, got)
	}

	if rec := f.do(http.MethodPut, "/v1/forms/"+id+"/fields/city", `{"value":"San Diego"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPut, "/v1/forms/"+id+"/fields/phoneNumber", `{"value":"+1 619 555 0100"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/v1/forms/"+id+"/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var submission survey.Submission
	json.NewDecoder(rec.Body).Decode(&submission)
	if submission.City != "San Diego" || submission.PhoneNumber != "+16195550100" {
		t.Errorf("unexpected submission: %+v", submission)
	}

	// Clearing the country resets the cascade
	rec = f.do(http.MethodPut, "/v1/forms/"+id+"/fields/countryCode", `{"value":""}`)
	form = decodeForm(t, rec)
	if got := form.Fields[survey.FieldState].Placeholder; got != survey.PlaceholderSelectCountryFirst {
		t.Errorf("expected state placeholder %q, got %q", survey.PlaceholderSelectCountryFirst, got)
	}
	if form.Fields[survey.FieldCity].Value != "" {
		t.Error("expected city cleared")
	}
}

// TestFormHandler_SetField_Errors tests status code mapping
func TestFormHandler_SetField_Errors(t *testing.T) {
	f := newFormFixture(t, geo.NewMockProvider("ipapi", "US"))
	id := f.create(t).ID

	tests := []struct {
		name     string
		path     string
		body     string
		expected int
	}{
		{"unknown field", "/v1/forms/" + id + "/fields/color", `{"value":"red"}`, http.StatusBadRequest},
		{"read-only field", "/v1/forms/" + id + "/fields/countryIso", `{"value":"FR"}`, http.StatusBadRequest},
		{"invalid json", "/v1/forms/" + id + "/fields/state", `{`, http.StatusBadRequest},
		{"missing value", "/v1/forms/" + id + "/fields/state", `{}`, http.StatusBadRequest},
		{"oversized body", "/v1/forms/" + id + "/fields/phoneNumber", `{"value":"` + strings.Repeat("1", 8<<10) + `"}`, http.StatusBadRequest},
		{"invalid choice", "/v1/forms/" + id + "/fields/state", `{"value":"ZZ"}`, http.StatusUnprocessableEntity},
		{"unknown session", "/v1/forms/missing/fields/state", `{"value":"CA"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

// TestFormHandler_Submit_Invalid tests validation errors
func TestFormHandler_Submit_Invalid(t *testing.T) {
	f := newFormFixture(t, geo.NewMockProvider("ipapi", "US"))
	id := f.create(t).ID

	rec := f.do(http.MethodPost, "/v1/forms/"+id+"/submit", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var resp models.ValidationErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	for _, field := range []string{survey.FieldState, survey.FieldCity, survey.FieldPhone} {
		if _, ok := resp.Fields[field]; !ok {
			t.Errorf("expected an error for %s, got %v", field, resp.Fields)
		}
	}
	if _, ok := resp.Fields[survey.FieldCountry]; ok {
		t.Error("expected the prefilled country to pass")
	}
}

// TestFormHandler_GetAndDelete tests lookup and removal
func TestFormHandler_GetAndDelete(t *testing.T) {
	f := newFormFixture(t, geo.NewMockProvider("ipapi", "US"))
	id := f.create(t).ID

	rec := f.do(http.MethodGet, "/v1/forms/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if form := decodeForm(t, rec); form.ID != id {
		t.Errorf("expected id %s, got %s", id, form.ID)
	}

	if rec := f.do(http.MethodDelete, "/v1/forms/"+id, ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/v1/forms/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/v1/forms/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", rec.Code)
	}
}
