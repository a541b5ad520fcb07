package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sdko-org/vertical-padding/internal/resolver"
)

// Nominatim implements resolver.Geocoder against a Nominatim search endpoint.
type Nominatim struct {
	client  *Client
	baseURL string
}

func NewNominatim(client *Client, baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns at most one candidate. Places with malformed coordinates are
// skipped.
func (n *Nominatim) Geocode(ctx context.Context, address string) ([]resolver.Location, error) {
	params := url.Values{
		"q":      {address},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	req, err := http.NewRequest(http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := n.client.do(ctx, req, "nominatim")
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	locations := make([]resolver.Location, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		locations = append(locations, resolver.Location{Lat: lat, Lon: lon, DisplayName: p.DisplayName})
	}
	return locations, nil
}
