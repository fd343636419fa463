package middleware

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// NewStaticTransport returns a transport that injects the bearer token but never
// refreshes after a 401 response.
//
//	Docs: docs/middleware.md
func NewStaticTransport(manager *goSession.Manager, base http.RoundTripper) *Transport {
	t := NewTransportFromSource(manager, base)
	t.retry = false
	return t
}
