// Package worldtime is the client for the remote time source: a public HTTP
// API that answers the current time of a named IANA zone.
package worldtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// DefaultBaseURL is the public time service.
const DefaultBaseURL = "https://worldtimeapi.org"

// Client defaults.
const (
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 5
)

// ErrInvalidZone is returned for a zone name that cannot be put in a URL path.
var ErrInvalidZone = errors.New("invalid timezone name")

// Config configures a Client. Zero values take the defaults above; a
// negative RequestsPerSecond disables the limiter.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client fetches zone times. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Limit(cfg.RequestsPerSecond)
	switch {
	case cfg.RequestsPerSecond < 0:
		limit = rate.Inf
	case cfg.RequestsPerSecond == 0:
		limit = rate.Limit(DefaultRequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current time for zone. Every failure wraps
// types.ErrTimeUnavailable so callers can mark the city without inspecting
// the cause.
func (c *Client) Now(ctx context.Context, zone string) (types.ZoneTime, error) {
	endpoint, err := c.endpoint(zone)
	if err != nil {
		return types.ZoneTime{}, fmt.Errorf("%w: %w", types.ErrTimeUnavailable, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return types.ZoneTime{}, fmt.Errorf("%w: waiting for rate limiter: %w", types.ErrTimeUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.ZoneTime{}, fmt.Errorf("%w: building request: %w", types.ErrTimeUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.ZoneTime{}, fmt.Errorf("%w: requesting %s: %w", types.ErrTimeUnavailable, zone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.ZoneTime{}, fmt.Errorf("%w: %s returned status %d: %s",
			types.ErrTimeUnavailable, zone, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var body timezoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.ZoneTime{}, fmt.Errorf("%w: decoding %s response: %w", types.ErrTimeUnavailable, zone, err)
	}
	return toZoneTime(zone, body)
}

// endpoint builds <base>/api/timezone/<zone>, escaping each zone segment.
func (c *Client) endpoint(zone string) (string, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return "", ErrInvalidZone
	}
	segments := strings.Split(zone, "/")
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidZone, zone)
		}
		segments[i] = url.PathEscape(seg)
	}
	return c.baseURL + "/api/timezone/" + strings.Join(segments, "/"), nil
}

// toZoneTime maps the response; unixtime backs up a missing utc_datetime.
func toZoneTime(zone string, body timezoneResponse) (types.ZoneTime, error) {
	var utc time.Time
	if body.UTCDatetime != "" {
		parsed, err := time.Parse(time.RFC3339Nano, body.UTCDatetime)
		if err != nil {
			return types.ZoneTime{}, fmt.Errorf("%w: parsing utc_datetime %q: %w", types.ErrTimeUnavailable, body.UTCDatetime, err)
		}
		utc = parsed.UTC()
	} else if body.Unixtime > 0 {
		utc = time.Unix(body.Unixtime, 0).UTC()
	} else {
		return types.ZoneTime{}, fmt.Errorf("%w: %s response has no time", types.ErrTimeUnavailable, zone)
	}

	tz := body.Timezone
	if tz == "" {
		tz = zone
	}
	return types.ZoneTime{UTC: utc, Timezone: tz, Offset: body.UTCOffset}, nil
}
