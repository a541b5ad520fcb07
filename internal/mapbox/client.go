// Package mapbox implements resolver.Geocoder with the Mapbox forward
// geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sdko-org/vertical-padding/internal/resolver"
	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client geocodes addresses through Mapbox.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry
}

func NewClient(logger *logrus.Logger, token string, timeout time.Duration) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: DefaultBaseURL,
		log:     logger.WithField("component", "mapbox_client"),
	}
}

// Geocode returns the best address match, or nothing.
func (c *Client) Geocode(ctx context.Context, address string) ([]resolver.Location, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(address))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"address,poi"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.log.WithField("status_code", resp.StatusCode).Warn("Mapbox returned error status")
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	locations := make([]resolver.Location, 0, len(mapboxResp.Features))
	for _, f := range mapboxResp.Features {
		// Mapbox uses lon,lat order.
		if len(f.Center) != 2 {
			continue
		}
		locations = append(locations, resolver.Location{
			Lon:         f.Center[0],
			Lat:         f.Center[1],
			DisplayName: f.PlaceName,
		})
	}
	return locations, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Relevance float64   `json:"relevance"`
}
