package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const NameIPAPI = "ipapi"

// ipapi.co answers 200 with {"error": true, "reason": ...} for bad input
// and sometimes for quota exhaustion, so both are inspected.
type ipapiResponse struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
}

type ipapiProvider struct {
	baseURL string
	client  HTTPClient
}

// NewIPAPI builds the primary provider: GET {baseURL}/{ip}/json/
func NewIPAPI(client HTTPClient, baseURL string) Provider {
	return ipapiProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (p ipapiProvider) Name() string {
	return NameIPAPI
}

func (p ipapiProvider) Lookup(ctx context.Context, ip string) Outcome {
	endpoint := p.baseURL + "/" + url.PathEscape(ip) + "/json/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failed(NameIPAPI, ErrNetwork, "cannot build a request: %v", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return failed(NameIPAPI, ErrNetwork, "cannot send a request: %v", err)
	}

	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize)) // nolint: errcheck
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return rateLimited(NameIPAPI, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(NameIPAPI, ErrNetwork, "unexpected status code: %d", resp.StatusCode)
	}

	payload := ipapiResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return failed(NameIPAPI, ErrMalformed, "cannot parse a response: %v", err)
	}

	if payload.Error {
		if strings.EqualFold(payload.Reason, "RateLimited") {
			return rateLimited(NameIPAPI, payload.Message)
		}
		return failed(NameIPAPI, ErrProviderReported, "%s", firstNonEmpty(payload.Reason, payload.Message, "unknown reason"))
	}

	countryCode, ok := normalizeCountryCode(payload.CountryCode)
	if !ok {
		return failed(NameIPAPI, ErrMalformed, "bad country code %q", payload.CountryCode)
	}

	return success(NameIPAPI, countryCode, firstNonEmpty(payload.IP, ip))
}
