package client

import (
	"context"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/and161185/gamestate-exporter/internal/config"
	"github.com/and161185/gamestate-exporter/model"
	"github.com/stretchr/testify/require"
)

const okBody = `{"data":{"serverGameState":{"numConnectedPlayers":12,"techTier":3,"totalGameDuration":7200,"averageTickRate":59.8}}}`

func newGameServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewTLSServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func endpointOf(ts *httptest.Server) string {
	return strings.TrimPrefix(ts.URL, "https://")
}

func writeCA(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	b := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ts.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestFetch_OK(t *testing.T) {
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var q model.QueryRequest
		require.NoError(t, json.Unmarshal(body, &q))
		require.Equal(t, "QueryServerState", q.Function)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, okBody)
	})

	c := NewClientWithHTTP(endpointOf(ts), ts.Client())
	require.Equal(t, ts.URL+"/api/v1", c.Endpoint())

	gs, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.GameState{
		NumConnectedPlayers: 12,
		TechTier:            3,
		TotalGameDuration:   7200,
		AverageTickRate:     59.8,
	}, *gs)
}

func TestFetch_BearerTokenFromFile(t *testing.T) {
	var auth string
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, okBody)
	})

	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("abc123\n"), 0o600))
	b, err := os.ReadFile(tokenFile)
	require.NoError(t, err)

	c, err := NewClient(&config.ExporterConfig{
		Endpoint:       endpointOf(ts),
		Token:          string(b),
		CAFile:         writeCA(t, ts),
		RequestTimeout: 2,
	})
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer abc123", auth)
}

func TestFetch_NoTokenNoHeader(t *testing.T) {
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, okBody)
	})

	c, err := NewClient(&config.ExporterConfig{Endpoint: endpointOf(ts), AllowInsecure: true, RequestTimeout: 2})
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetch_SelfSignedRejectedByDefault(t *testing.T) {
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, okBody)
	})

	c, err := NewClient(&config.ExporterConfig{Endpoint: endpointOf(ts), RequestTimeout: 2})
	require.NoError(t, err)

	gs, err := c.Fetch(context.Background())
	require.Nil(t, gs)
	require.True(t, errors.Is(err, ErrTransport), "got %v", err)
	require.False(t, errors.Is(err, ErrDecode))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, KindTransport, fe.Kind)
}

func TestFetch_InsecureAcceptsSelfSigned(t *testing.T) {
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, okBody)
	})

	c, err := NewClient(&config.ExporterConfig{Endpoint: endpointOf(ts), AllowInsecure: true, RequestTimeout: 2})
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetch_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing_tick_rate", `{"data":{"serverGameState":{"numConnectedPlayers":12,"techTier":3,"totalGameDuration":7200}}}`},
		{"string_players", `{"data":{"serverGameState":{"numConnectedPlayers":"12","techTier":3,"totalGameDuration":7200,"averageTickRate":59.8}}}`},
		{"negative_tier", `{"data":{"serverGameState":{"numConnectedPlayers":12,"techTier":-3,"totalGameDuration":7200,"averageTickRate":59.8}}}`},
		{"not_json", `<html>oops</html>`},
		{"empty", ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			})
			c := NewClientWithHTTP(endpointOf(ts), ts.Client())

			gs, err := c.Fetch(context.Background())
			require.Nil(t, gs)
			require.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, ""},
		{"html_error_page", http.StatusInternalServerError, "<html><body>Internal Server Error</body></html>"},
		{"json_body", http.StatusServiceUnavailable, okBody},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			c := NewClientWithHTTP(endpointOf(ts), ts.Client())

			gs, err := c.Fetch(context.Background())
			require.Nil(t, gs)
			require.True(t, errors.Is(err, ErrDecode), "got %v", err)
			require.False(t, errors.Is(err, ErrTransport))
			require.Contains(t, err.Error(), fmt.Sprintf("unexpected status: %d", tc.status))
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := newGameServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := NewClientWithHTTP(endpointOf(ts), ts.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx)
	require.True(t, errors.Is(err, ErrTransport))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewClient_BadCAFile(t *testing.T) {
	_, err := NewClient(&config.ExporterConfig{Endpoint: "host:443", CAFile: "/nonexistent/ca.pem"})
	require.Error(t, err)
}

func TestFetchError_Is(t *testing.T) {
	err := &FetchError{Kind: KindDecode, Err: errors.New("boom")}
	require.True(t, errors.Is(err, ErrDecode))
	require.False(t, errors.Is(err, ErrTransport))
	require.Equal(t, "decode error: boom", err.Error())
}
