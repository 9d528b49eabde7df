// Package client queries the game server status API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/and161185/gamestate-exporter/internal/client/transport"
	"github.com/and161185/gamestate-exporter/internal/config"
	"github.com/and161185/gamestate-exporter/internal/tlsconf"
	"github.com/and161185/gamestate-exporter/model"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 1 << 20

// FetchKind classifies a failed fetch.
type FetchKind string

const (
	KindTransport FetchKind = "transport" // Connection, TLS or timeout failure.
	KindDecode    FetchKind = "decode"    // Response is not a game state, including non-2xx replies.
)

var (
	ErrTransport = errors.New("transport error")
	ErrDecode    = errors.New("decode error")
)

// FetchError is returned by Fetch. It matches ErrTransport or ErrDecode
// with errors.Is depending on its Kind.
type FetchError struct {
	Kind FetchKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	switch e.Kind {
	case KindTransport:
		return target == ErrTransport
	case KindDecode:
		return target == ErrDecode
	}
	return false
}

func transportErr(format string, a ...any) error {
	return &FetchError{Kind: KindTransport, Err: fmt.Errorf(format, a...)}
}

func decodeErr(format string, a ...any) error {
	return &FetchError{Kind: KindDecode, Err: fmt.Errorf(format, a...)}
}

// Client fetches the game state from one server.
type Client struct {
	httpClient *http.Client
	url        string
	body       []byte
}

// NewClient creates a client for the endpoint in cfg.
func NewClient(cfg *config.ExporterConfig) (*Client, error) {
	hc, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(cfg.Endpoint, hc), nil
}

// NewClientWithHTTP creates a client using a ready http.Client.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	// a struct with one string field cannot fail to marshal
	body, _ := json.Marshal(model.QueryRequest{Function: model.QueryServerState})
	return &Client{
		httpClient: hc,
		url:        fmt.Sprintf("https://%s/api/v1", endpoint),
		body:       body,
	}
}

// NewHTTPClient builds the http.Client used to reach the server: TLS
// settings, bearer token and request timeout all come from cfg.
func NewHTTPClient(cfg *config.ExporterConfig) (*http.Client, error) {
	tlsCfg, err := tlsconf.Config(cfg.AllowInsecure, cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("tls config: %w", err)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsCfg

	var rt http.RoundTripper = base
	if cfg.Token != "" {
		rt = &transport.BearerRoundTripper{Base: rt, Token: cfg.Token}
	}

	return &http.Client{
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Transport: rt,
	}, nil
}

// Endpoint returns the URL queried by Fetch.
func (c *Client) Endpoint() string {
	return c.url
}

// Fetch performs a single QueryServerState call. It does not retry.
func (c *Client) Fetch(ctx context.Context) (*model.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(c.body))
	if err != nil {
		return nil, transportErr("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr("send request: %w", err)
	}
	defer resp.Body.Close()

	// a reply that is not a game state is a decode failure, whatever its status
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, decodeErr("unexpected status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportErr("read body: %w", err)
	}

	var sr model.ServerResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, decodeErr("unmarshal: %w", err)
	}
	state, err := sr.GameState()
	if err != nil {
		return nil, decodeErr("%w", err)
	}
	return state, nil
}
