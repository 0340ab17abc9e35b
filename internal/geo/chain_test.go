package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type fakeProvider struct {
	name    string
	outcome Outcome
	calls   []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Lookup(ctx context.Context, ip string) Outcome {
	f.calls = append(f.calls, ip)
	return f.outcome
}

// TestChain_PrimarySuccessSkipsSecondary tests that the secondary is never called
func TestChain_PrimarySuccessSkipsSecondary(t *testing.T) {
	primary := &fakeProvider{name: "primary", outcome: success("primary", "FR", "1.2.3.4")}
	secondary := &fakeProvider{name: "secondary", outcome: success("secondary", "DE", "1.2.3.4")}

	outcome, attempts := Chain{primary, secondary}.Lookup(context.Background(), "1.2.3.4")

	if !outcome.OK() || outcome.CountryCode != "FR" {
		t.Errorf("expected FR success, got %+v", outcome)
	}
	if len(secondary.calls) != 0 {
		t.Errorf("expected secondary not to be called, got %d calls", len(secondary.calls))
	}
	if len(attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(attempts))
	}
}

// TestChain_RateLimitedFallsThrough tests that a rate limited primary queries the secondary once
func TestChain_RateLimitedFallsThrough(t *testing.T) {
	primary := &fakeProvider{name: "primary", outcome: rateLimited("primary", "")}
	secondary := &fakeProvider{name: "secondary", outcome: success("secondary", "JP", "1.2.3.4")}

	outcome, attempts := Chain{primary, secondary}.Lookup(context.Background(), "1.2.3.4")

	if outcome.CountryCode != "JP" || outcome.Provider != "secondary" {
		t.Errorf("expected JP from secondary, got %+v", outcome)
	}
	if len(secondary.calls) != 1 {
		t.Errorf("expected secondary called exactly once, got %d", len(secondary.calls))
	}
	if secondary.calls[0] != "1.2.3.4" {
		t.Errorf("expected secondary to get the same IP, got %s", secondary.calls[0])
	}
	if len(attempts) != 2 || attempts[0].Kind != KindRateLimited {
		t.Errorf("unexpected attempts: %+v", attempts)
	}
}

// TestChain_AllFail tests that a fully failed chain returns every attempt
func TestChain_AllFail(t *testing.T) {
	primary := &fakeProvider{name: "primary", outcome: failed("primary", ErrNetwork, "boom")}
	secondary := &fakeProvider{name: "secondary", outcome: failed("secondary", ErrProviderReported, "fail")}

	outcome, attempts := Chain{primary, secondary}.Lookup(context.Background(), "1.2.3.4")

	if outcome.OK() {
		t.Errorf("expected no usable outcome, got %+v", outcome)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if !errors.Is(attempts[1].Err, ErrProviderReported) {
		t.Errorf("expected provider reported error, got %v", attempts[1].Err)
	}
}

// TestChain_CancelledContext tests that no provider is called once the context is done
func TestChain_CancelledContext(t *testing.T) {
	primary := &fakeProvider{name: "primary", outcome: success("primary", "FR", "1.2.3.4")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, attempts := Chain{primary}.Lookup(ctx, "1.2.3.4")

	if outcome.OK() {
		t.Error("expected no outcome on a cancelled context")
	}
	if len(primary.calls) != 0 {
		t.Errorf("expected no calls, got %d", len(primary.calls))
	}
	if len(attempts) != 1 || attempts[0].Provider != "primary" {
		t.Errorf("unexpected attempts: %+v", attempts)
	}
}

// TestKind_String tests metric labels
func TestKind_String(t *testing.T) {
	if KindSuccess.String() != "success" || KindRateLimited.String() != "rate_limited" || KindFailed.String() != "failed" {
		t.Error("unexpected kind labels")
	}
}

// TestHTTPClient_LocalQuota tests that an exhausted quota answers 429 without a network call
func TestHTTPClient_LocalQuota(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("User-Agent") != "survey-test" {
			t.Errorf("expected user agent to be set, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"country_code": "FR"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client(), "survey-test", time.Second, 1)
	prov := NewIPAPI(client, server.URL)

	first := prov.Lookup(context.Background(), "1.2.3.4")
	if !first.OK() {
		t.Fatalf("expected first lookup to succeed, got %+v", first)
	}

	second := prov.Lookup(context.Background(), "1.2.3.4")
	if second.Kind != KindRateLimited {
		t.Errorf("expected second lookup to be rate limited locally, got %+v", second)
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 upstream hit, got %d", got)
	}
}

// TestNormalizeCountryCode tests code clean-up
func TestNormalizeCountryCode(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"us", "US", true},
		{" fr ", "FR", true},
		{"UK", "GB", true},
		{"", "", false},
		{"USA", "", false},
		{"QQ", "", false},
	}

	for _, tt := range tests {
		got, ok := normalizeCountryCode(tt.in)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("normalizeCountryCode(%q) = (%q, %v), expected (%q, %v)", tt.in, got, ok, tt.expected, tt.ok)
		}
	}
}
