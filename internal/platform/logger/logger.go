// Package logger constructs the application logger. Every logger in the
// process derives from here, which is what makes the PHI-masking guarantee
// hold: the masking handler wraps the sink, so no call site can emit an
// unredacted email, phone number, identifier, or password.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"mediconnect/internal/phi"
)

// New returns a JSON logger wrapped with PHI masking.
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(phi.NewLogHandler(slog.NewJSONHandler(os.Stdout, opts)))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
