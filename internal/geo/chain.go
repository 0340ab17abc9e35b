package geo

import "context"

// Chain is an ordered list of providers. Lookup stops at the first
// success, so the secondary is only queried when the primary failed or
// was rate limited.
type Chain []Provider

// Lookup returns the first successful outcome, or every outcome
// collected on the way when none succeeded.
func (c Chain) Lookup(ctx context.Context, ip string) (Outcome, []Outcome) {
	attempts := make([]Outcome, 0, len(c))

	for _, provider := range c {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, failed(provider.Name(), ErrNetwork, "skipped: %v", err))
			break
		}

		outcome := provider.Lookup(ctx, ip)
		if outcome.Provider == "" {
			outcome.Provider = provider.Name()
		}
		attempts = append(attempts, outcome)

		if outcome.OK() {
			return outcome, attempts
		}
	}

	return Outcome{}, attempts
}
