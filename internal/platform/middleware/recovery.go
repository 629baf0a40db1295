package middleware

import (
	"log/slog"
	"net/http"

	"mediconnect/internal/transport/http/shared"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/requestcontext"
)

// Recovery converts a handler panic into a generic 500 envelope. The panic
// value goes to diagnostics only, never to the client.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "handler panic",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", requestcontext.RequestID(ctx),
					)
					shared.WriteError(w, r, dErrors.Internal())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
