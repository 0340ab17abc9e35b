// Package geo holds the IP geolocation providers and the ordered chain
// that tries them one after another.
package geo

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNetwork          = errors.New("provider request failed")
	ErrRateLimited      = errors.New("provider rate limited")
	ErrProviderReported = errors.New("provider reported an error")
	ErrMalformed        = errors.New("malformed provider response")
)

// Kind classifies a provider outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindRateLimited
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

// Outcome is the single result type shared by every provider. Err is
// nil only for KindSuccess.
type Outcome struct {
	Provider    string
	Kind        Kind
	CountryCode string
	IP          string
	Err         error
}

// OK reports whether the outcome carries a usable country code.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess && o.Err == nil && o.CountryCode != ""
}

// Provider looks up a country for an IP address. Implementations never
// panic on bad input and report every problem through Outcome.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip string) Outcome
}

func success(provider, countryCode, ip string) Outcome {
	return Outcome{
		Provider:    provider,
		Kind:        KindSuccess,
		CountryCode: countryCode,
		IP:          ip,
	}
}

func rateLimited(provider string, detail string) Outcome {
	err := ErrRateLimited
	if detail != "" {
		err = fmt.Errorf("%w: %s", ErrRateLimited, detail)
	}

	return Outcome{Provider: provider, Kind: KindRateLimited, Err: err}
}

func failed(provider string, kind error, format string, args ...interface{}) Outcome {
	return Outcome{
		Provider: provider,
		Kind:     KindFailed,
		Err:      fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}
