// Package httpserver builds the HTTP servers the shop exposes (API and
// metrics) with shared timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server configured for the shop's request profile: small JSON
// bodies, no streaming, so tight header and idle timeouts are safe.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
