package osm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "padstop-test/0"

func testClient(timeout time.Duration) *Client {
	return NewClient(observability.NewDiscardLogger(), timeout, testUserAgent)
}

func TestNominatim_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "350 5th Ave, New York", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode([]nominatimPlace{
			{Lat: "40.7484405", Lon: "-73.9856644", DisplayName: "Empire State Building"},
		}))
	}))
	defer srv.Close()

	locs, err := NewNominatim(testClient(time.Second), srv.URL).Geocode(context.Background(), "350 5th Ave, New York")
	require.NoError(t, err)
	require.Len(t, locs, 1)

	assert.Equal(t, 40.7484405, locs[0].Lat)
	assert.Equal(t, -73.9856644, locs[0].Lon)
	assert.Equal(t, "Empire State Building", locs[0].DisplayName)
}

func TestNominatim_Geocode_TrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		_, _ = w.Write([]byte(`[{"lat":"1.5","lon":"2.5","display_name":"x"}]`))
	}))
	defer srv.Close()

	locs, err := NewNominatim(testClient(time.Second), srv.URL+"/").Geocode(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, 1.5, locs[0].Lat)
}

func TestNominatim_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	locs, err := NewNominatim(testClient(time.Second), srv.URL).Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestNominatim_Geocode_SkipsMalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-1"}]`))
	}))
	defer srv.Close()

	locs, err := NewNominatim(testClient(time.Second), srv.URL).Geocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestNominatim_Geocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`blocked`))
	}))
	defer srv.Close()

	_, err := NewNominatim(testClient(time.Second), srv.URL).Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "blocked")
}

func TestNominatim_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewNominatim(testClient(50*time.Millisecond), srv.URL).Geocode(context.Background(), "x")
	require.Error(t, err)
}

func TestOverpass_BuildingsNear_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `[out:json];(way["building"](around:10,40.7484,-73.9857););out tags;`, string(body))

		_, _ = w.Write([]byte(`{"elements":[
			{"type":"way","id":34633854,"tags":{"building":"office","building:levels":"102"}},
			{"type":"way","id":2,"tags":{"building":"yes"}}
		]}`))
	}))
	defer srv.Close()

	elements, err := NewOverpass(testClient(time.Second), srv.URL).BuildingsNear(context.Background(), 40.7484, -73.9857, 10)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, int64(34633854), elements[0].ID)
	assert.Equal(t, "way", elements[0].Type)
	assert.Equal(t, "102", elements[0].Tags["building:levels"])
	assert.Equal(t, "yes", elements[1].Tags["building"])
}

func TestOverpass_BuildingsNear_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	elements, err := NewOverpass(testClient(time.Second), srv.URL).BuildingsNear(context.Background(), 1, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestOverpass_BuildingsNear_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	_, err := NewOverpass(testClient(time.Second), srv.URL).BuildingsNear(context.Background(), 1, 2, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "504")
}

func TestOverpass_BuildingsNear_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	_, err := NewOverpass(testClient(time.Second), srv.URL).BuildingsNear(context.Background(), 1, 2, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode overpass response")
}
