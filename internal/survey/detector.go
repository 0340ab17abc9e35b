package survey

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
)

// Detector answers "which country is this session in?" for prefill.
// An error means "leave the country unset".
type Detector interface {
	Detect(ctx context.Context) (models.GeoResult, error)
}

// Resolver is satisfied by *service.GeoService
type Resolver interface {
	Detect(ctx context.Context, candidateIP string) models.GeoResult
}

// ResolverDetector runs detection in-process for a fixed client address
type ResolverDetector struct {
	Resolver Resolver
	ClientIP string
}

func (d ResolverDetector) Detect(ctx context.Context) (models.GeoResult, error) {
	return d.Resolver.Detect(ctx, d.ClientIP), nil
}

// maxResponseSize bounds what is read from the detection service
const maxResponseSize = 16 << 10

// HTTPDetector calls GET /api/detect-country, forwarding the client address
type HTTPDetector struct {
	client   *http.Client
	endpoint string
	clientIP string
}

// NewHTTPDetector creates a detector against the service at baseURL
func NewHTTPDetector(client *http.Client, baseURL, clientIP string) *HTTPDetector {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	return &HTTPDetector{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + "/api/detect-country",
		clientIP: clientIP,
	}
}

func (d *HTTPDetector) Detect(ctx context.Context) (models.GeoResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint, nil)
	if err != nil {
		return models.GeoResult{}, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.clientIP != "" {
		req.Header.Set("X-Forwarded-For", d.clientIP)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return models.GeoResult{}, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeoResult{}, fmt.Errorf("detection returned status %d", resp.StatusCode)
	}

	var result models.GeoResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&result); err != nil {
		return models.GeoResult{}, fmt.Errorf("cannot decode detection response: %w", err)
	}

	return result, nil
}
