package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/settlement-gateway/internal/config"
	"github.com/magabrotheeeer/settlement-gateway/internal/proxy"
)

func proxyOnlyConfig(origin string, upstreamTimeout, writeTimeout time.Duration) *config.Config {
	return &config.Config{
		HTTPServer: config.HTTPServer{
			Address:      ":0",
			Timeout:      time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  time.Second,
		},
		Upstream:  config.Upstream{Origin: origin, Timeout: upstreamTimeout},
		RateLimit: config.RateLimit{Requests: 100, Window: time.Minute},
	}
}

func TestApp_WriteTimeout(t *testing.T) {
	app := &App{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	tests := []struct {
		name     string
		upstream time.Duration
		write    time.Duration
		want     time.Duration
	}{
		{name: "defaults kept", upstream: 30 * time.Second, write: 60 * time.Second, want: 60 * time.Second},
		{name: "equal is raised", upstream: 30 * time.Second, write: 30 * time.Second, want: 30*time.Second + writeTimeoutMargin},
		{name: "shorter is raised", upstream: 30 * time.Second, write: 10 * time.Second, want: 30*time.Second + writeTimeoutMargin},
		{name: "unlimited stays unlimited", upstream: 30 * time.Second, write: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := app.writeTimeout(proxyOnlyConfig("http://upstream.local", tt.upstream, tt.write))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApp_SlowUpstreamGetsBadGateway(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)

	upstreamTimeout := 200 * time.Millisecond
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := New(context.Background(), proxyOnlyConfig(slow.URL, upstreamTimeout, upstreamTimeout), logger)
	require.NoError(t, err)
	assert.Greater(t, app.server.WriteTimeout, upstreamTimeout)

	srv := httptest.NewUnstartedServer(app.server.Handler)
	srv.Config.ReadTimeout = app.server.ReadTimeout
	srv.Config.WriteTimeout = app.server.WriteTimeout
	srv.Start()
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/settlements")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), proxy.FailureMessage)
}
