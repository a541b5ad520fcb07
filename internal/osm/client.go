// Package osm talks to OpenStreetMap services: Nominatim for geocoding and the
// Overpass API for building tags.
package osm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultOverpassURL  = "https://overpass-api.de/api/interpreter"
	DefaultUserAgent    = "padstop/1.0"
)

// Client holds the HTTP plumbing shared by the Nominatim and Overpass clients.
type Client struct {
	httpClient *http.Client
	userAgent  string
	log        *logrus.Entry
}

type loggingTransport struct {
	next http.RoundTripper
	log  *logrus.Entry
}

// NewClient builds a client whose requests are bounded by timeout and logged
// at debug level.
func NewClient(logger *logrus.Logger, timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &loggingTransport{
				next: http.DefaultTransport,
				log:  logger.WithField("component", "osm_transport"),
			},
		},
		userAgent: userAgent,
		log:       logger.WithField("component", "osm_client"),
	}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.log.WithFields(logrus.Fields{
		"method": req.Method,
		"host":   req.URL.Host,
		"path":   req.URL.Path,
	})

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}

// do sends req and returns the body of a 200 response. Any other status is an
// error carrying a prefix of the body.
func (c *Client) do(ctx context.Context, req *http.Request, service string) ([]byte, error) {
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", service, err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 256 {
			body = body[:256]
		}
		c.log.WithFields(logrus.Fields{
			"service":     service,
			"status_code": resp.StatusCode,
		}).Warn("Upstream returned error status")
		return nil, fmt.Errorf("%s API error: status %d: %s", service, resp.StatusCode, body)
	}
	return body, nil
}
