package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const NameIPAPICom = "ip-api"

type ipapiComResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
	Query       string `json:"query"`
}

type ipapiComProvider struct {
	baseURL string
	client  HTTPClient
}

// NewIPAPICom builds the secondary provider: GET {baseURL}/json/{ip}
func NewIPAPICom(client HTTPClient, baseURL string) Provider {
	return ipapiComProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (p ipapiComProvider) Name() string {
	return NameIPAPICom
}

func (p ipapiComProvider) Lookup(ctx context.Context, ip string) Outcome {
	endpoint := p.baseURL + "/json/" + url.PathEscape(ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failed(NameIPAPICom, ErrNetwork, "cannot build a request: %v", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return failed(NameIPAPICom, ErrNetwork, "cannot send a request: %v", err)
	}

	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize)) // nolint: errcheck
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return rateLimited(NameIPAPICom, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(NameIPAPICom, ErrNetwork, "unexpected status code: %d", resp.StatusCode)
	}

	payload := ipapiComResponse{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return failed(NameIPAPICom, ErrMalformed, "cannot parse a response: %v", err)
	}

	if payload.Status != "success" {
		return failed(NameIPAPICom, ErrProviderReported, "status %q: %s", payload.Status, firstNonEmpty(payload.Message, "no message"))
	}

	countryCode, ok := normalizeCountryCode(payload.CountryCode)
	if !ok {
		return failed(NameIPAPICom, ErrMalformed, "bad country code %q", payload.CountryCode)
	}

	return success(NameIPAPICom, countryCode, firstNonEmpty(payload.Query, ip))
}
