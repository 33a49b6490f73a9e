// Package httpserver builds the process's HTTP server. Twilio abandons a
// webhook request after 15 seconds, so every timeout here stays inside that
// budget.
package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 14 * time.Second
	idleTimeout       = 60 * time.Second
)

// New returns a server for the webhook, auth and admin endpoints.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
