// Package conf provides configuration management for cwtonequeue.
package conf

import "log/slog"

// GetLogger returns a logger scoped to the config module. It uses the
// process-wide default logger directly (rather than internal/logging)
// because internal/logging itself depends on this package for log file
// rotation settings — importing it here would create a cycle.
func GetLogger() *slog.Logger {
	return slog.Default().With("service", "conf")
}
