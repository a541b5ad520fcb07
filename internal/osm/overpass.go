package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sdko-org/vertical-padding/internal/resolver"
)

// Overpass implements resolver.TagSource with an Overpass QL query for
// building ways around a point.
type Overpass struct {
	client  *Client
	baseURL string
}

func NewOverpass(client *Client, baseURL string) *Overpass {
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}
	return &Overpass{client: client, baseURL: baseURL}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`
}

func buildingQuery(lat, lon float64, radiusMeters int) string {
	return fmt.Sprintf(`[out:json];(way["building"](around:%d,%s,%s););out tags;`,
		radiusMeters,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
	)
}

// BuildingsNear returns elements in the order Overpass lists them.
func (o *Overpass) BuildingsNear(ctx context.Context, lat, lon float64, radiusMeters int) ([]resolver.Element, error) {
	req, err := http.NewRequest(http.MethodPost, o.baseURL, strings.NewReader(buildingQuery(lat, lon, radiusMeters)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	body, err := o.client.do(ctx, req, "overpass")
	if err != nil {
		return nil, err
	}

	var resp overpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	elements := make([]resolver.Element, len(resp.Elements))
	for i, e := range resp.Elements {
		elements[i] = resolver.Element{Type: e.Type, ID: e.ID, Tags: e.Tags}
	}
	return elements, nil
}
