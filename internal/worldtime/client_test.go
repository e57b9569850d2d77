package worldtime

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, RequestsPerSecond: -1}), srv
}

func TestNow(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"utc_datetime": "2026-10-15T17:04:05.123456+00:00",
			"datetime": "2026-10-15T14:04:05.123456-03:00",
			"timezone": "America/Argentina/Buenos_Aires",
			"utc_offset": "-03:00",
			"unixtime": 1792083845
		}`)
	})

	zt, err := c.Now(context.Background(), "America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	assert.Equal(t, "/api/timezone/America/Argentina/Buenos_Aires", gotPath)
	assert.Equal(t, "America/Argentina/Buenos_Aires", zt.Timezone)
	assert.Equal(t, "-03:00", zt.Offset)
	assert.Equal(t, time.Date(2026, 10, 15, 17, 4, 5, 123456000, time.UTC), zt.UTC)
}

func TestNowFallbacks(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unixtime": 1700000000}`)
	})

	zt, err := c.Now(context.Background(), "America/Lima")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), zt.UTC)
	assert.Equal(t, "America/Lima", zt.Timezone, "missing timezone falls back to the requested zone")
}

func TestNowFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		zone    string
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unknown location", http.StatusNotFound)
			},
			zone: "America/Nowhere",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			zone: "America/Lima",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"utc_datetime":`)
			},
			zone: "America/Lima",
		},
		{
			name: "unparseable timestamp",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"utc_datetime":"soon","timezone":"America/Lima"}`)
			},
			zone: "America/Lima",
		},
		{
			name: "body without any time",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"timezone":"America/Lima"}`)
			},
			zone: "America/Lima",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			_, err := c.Now(context.Background(), tt.zone)
			assert.ErrorIs(t, err, types.ErrTimeUnavailable)
		})
	}
}

func TestNowNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, RequestsPerSecond: -1, Timeout: time.Second})
	_, err := c.Now(context.Background(), "America/Lima")
	assert.ErrorIs(t, err, types.ErrTimeUnavailable)
}

func TestNowInvalidZone(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, zone := range []string{"", "  ", "America//Lima", "../etc/passwd", "America/."} {
		_, err := c.Now(context.Background(), zone)
		assert.ErrorIs(t, err, ErrInvalidZone, "zone %q", zone)
		assert.ErrorIs(t, err, types.ErrTimeUnavailable, "zone %q", zone)
	}
	assert.False(t, called, "invalid zones never reach the network")
}

func TestNowRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"utc_datetime":"2026-10-15T17:04:05Z","timezone":"America/Lima"}`)
	}))
	defer srv.Close()

	// One token, refilled once a minute: the second call cannot proceed
	// before the context deadline.
	c := NewClient(Config{BaseURL: srv.URL, RequestsPerSecond: 1.0 / 60, Burst: 1})

	_, err := c.Now(context.Background(), "America/Lima")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Now(ctx, "America/Lima")
	assert.ErrorIs(t, err, types.ErrTimeUnavailable)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultBurst, c.limiter.Burst())

	custom := &http.Client{}
	c = NewClient(Config{BaseURL: "http://example.test/"}, WithHTTPClient(custom))
	assert.Equal(t, "http://example.test", c.baseURL)
	assert.Same(t, custom, c.httpClient)
}
