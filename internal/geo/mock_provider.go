package geo

import "context"

// MockProvider is a test double for the Provider interface
// It returns a configured outcome and records every IP it was asked about
type MockProvider struct {
	ProviderName string
	Outcome      Outcome

	// PanicWith makes Lookup panic with this value when non-nil
	PanicWith interface{}

	LookupCalls []string
}

// NewMockProvider creates a provider that always succeeds with countryCode
func NewMockProvider(name, countryCode string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Outcome:      success(name, countryCode, ""),
		LookupCalls:  []string{},
	}
}

// NewFailingMockProvider creates a provider that always fails with kind
func NewFailingMockProvider(name string, kind error) *MockProvider {
	outcome := failed(name, kind, "mock failure")
	if kind == ErrRateLimited {
		outcome = rateLimited(name, "")
	}

	return &MockProvider{
		ProviderName: name,
		Outcome:      outcome,
		LookupCalls:  []string{},
	}
}

func (m *MockProvider) Name() string {
	return m.ProviderName
}

// Lookup echoes the queried IP when the configured outcome has none
func (m *MockProvider) Lookup(ctx context.Context, ip string) Outcome {
	m.LookupCalls = append(m.LookupCalls, ip)

	if m.PanicWith != nil {
		panic(m.PanicWith)
	}

	outcome := m.Outcome
	if outcome.Kind == KindSuccess && outcome.IP == "" {
		outcome.IP = ip
	}

	return outcome
}
