package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// ErrNilTransport is an exported constant or variable used by the session manager.
var ErrNilTransport = errors.New("nil transport")

type sessionSource interface {
	AccessToken() string
	RefreshToken(ctx context.Context) (bool, error)
}

// Transport is an [http.RoundTripper] that injects the current bearer token into
// outgoing requests and retries once after a token refresh when the upstream
// answers 401.
//
//	Docs: docs/middleware.md
type Transport struct {
	source sessionSource
	base   http.RoundTripper
	retry  bool
}

// NewTransport creates a Transport backed by the given [goSession.Manager].
//
//	Docs: docs/middleware.md
func NewTransport(manager *goSession.Manager, base http.RoundTripper) *Transport {
	return NewTransportFromSource(manager, base)
}

// NewTransportFromSource creates a Transport from a custom session source.
//
//	Docs: docs/middleware.md
func NewTransportFromSource(source sessionSource, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{source: source, base: base, retry: true}
}

// RoundTrip implements [http.RoundTripper].
//
// RoundTrip may return an error when input validation, dependency calls, or security checks fail.
// RoundTrip does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.source == nil {
		return base.RoundTrip(req)
	}

	// Caller-set credentials win; injected credentials are eligible for refresh-retry.
	injected := req.Header.Get("Authorization") == ""

	resp, err := base.RoundTrip(t.withBearer(req, injected))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !t.retry || !injected {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		// The body is consumed and cannot be replayed.
		return resp, nil
	}

	ok, rerr := t.source.RefreshToken(req.Context())
	if rerr != nil || !ok {
		return resp, nil
	}

	retry := t.withBearer(req, true)
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}

	drain(resp)
	return base.RoundTrip(retry)
}

func (t *Transport) withBearer(req *http.Request, inject bool) *http.Request {
	out := req.Clone(req.Context())
	if !inject {
		return out
	}
	if token := t.source.AccessToken(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return out
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
