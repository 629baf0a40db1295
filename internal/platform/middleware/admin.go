package middleware

import (
	"crypto/subtle"
	"net/http"

	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/internal/transport/http/shared"
)

// RequireAdminToken guards operator-only endpoints with a shared secret
// carried in the X-Admin-Token header. Comparison is constant-time.
func RequireAdminToken(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				shared.WriteError(w, r, dErrors.Forbidden())
				return
			}

			provided := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
				shared.WriteError(w, r, dErrors.Forbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
