// Package httpserver exposes read-only HTTP introspection for a running
// tone queue: liveness, a queue depth/state snapshot, and Prometheus
// metrics.
package httpserver

import "context"

// Server is the interface the CLI's serve command drives.
type Server interface {
	// Start begins serving HTTP requests in a background goroutine and
	// returns immediately.
	Start(ctx context.Context) error

	// Shutdown gracefully stops the server, honoring ctx's deadline.
	Shutdown(ctx context.Context) error

	// Addr returns the address the server is actually listening on, valid
	// after Start returns without error. Useful when the configured
	// address uses a ":0" port and the caller needs to learn which one
	// was assigned.
	Addr() string
}
