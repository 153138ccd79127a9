// Package geo implements the Geocoder port against a Nominatim-compatible
// HTTP endpoint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

// DefaultBaseURL is the public Nominatim instance. Production deployments
// should point at a self-hosted mirror; the public instance enforces a
// 1 request/second policy, which matches the import orchestrator's gate.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const requestTimeout = 10 * time.Second

// NominatimGeocoder resolves postal addresses through the Nominatim search
// API. A miss (empty result set) is reported as a nil location with a nil
// error; transport and HTTP failures are reported as upstream errors.
type NominatimGeocoder struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewNominatimGeocoder creates a geocoder against baseURL. The userAgent
// identifies the caller as Nominatim's usage policy requires.
func NewNominatimGeocoder(baseURL string, userAgent string) (*NominatimGeocoder, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if userAgent == "" {
		return nil, errs.NewValueIsRequiredError("userAgent")
	}

	return &NominatimGeocoder{
		client:    &http.Client{Timeout: requestTimeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}, nil
}

// nominatimResult is one hit of the Nominatim search response. Coordinates
// arrive as strings.
type nominatimResult struct {
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
	Type string `json:"type"`
}

// Geocode resolves the address to coordinates. Returns nil without error
// when the provider has no match for the address.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address job.Address) (*ports.GeocodedLocation, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", address.String())
	params.Set("format", "json")
	params.Set("limit", "1")

	endpoint := g.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errs.NewUpstreamError("geocoder", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewUpstreamError("geocoder",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, errs.NewUpstreamError("geocoder", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, errs.NewUpstreamError("geocoder", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, errs.NewUpstreamError("geocoder", err)
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return nil, errs.NewUpstreamError("geocoder", err)
	}

	return &ports.GeocodedLocation{
		Point:    point,
		Accuracy: results[0].Type,
	}, nil
}
