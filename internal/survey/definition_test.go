package survey

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestNewDefinition tests the location panel layout
func TestNewDefinition(t *testing.T) {
	def := NewDefinition(fakeCountries)

	if len(def.Elements) != 1 || def.Elements[0].Name != "locationSection" {
		t.Fatalf("expected a single locationSection panel, got %+v", def.Elements)
	}

	panel := def.Elements[0]
	names := make([]string, 0, len(panel.Elements))
	for _, e := range panel.Elements {
		names = append(names, e.Name)
		if !IsField(e.Name) {
			t.Errorf("panel element %s is not a form field", e.Name)
		}
	}
	if strings.Join(names, ",") != "countryCode,phoneNumber,state,city,countryIso,countryFlag" {
		t.Errorf("unexpected element order: %v", names)
	}

	country := panel.Elements[0]
	if country.Type != "dropdown" || !country.IsRequired || len(country.Choices) != len(fakeCountries) {
		t.Errorf("unexpected country element: %+v", country)
	}

	body, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("failed to encode definition: %v", err)
	}
	if !strings.Contains(string(body), `"startWithNewLine":false`) {
		t.Error("expected phone number to share the country's line")
	}
}
