// Package transport provides http.RoundTripper wrappers for the game server client.
package transport

import (
	"net/http"
	"strings"
)

// BearerRoundTripper adds an "Authorization: Bearer" header to every request.
type BearerRoundTripper struct {
	Base  http.RoundTripper
	Token string
}

func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := b.Base
	if rt == nil {
		rt = http.DefaultTransport
	}

	token := strings.TrimSpace(b.Token)
	if token == "" {
		return rt.RoundTrip(req)
	}

	// a RoundTripper must not modify the caller's request
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return rt.RoundTrip(r)
}
