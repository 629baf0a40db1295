package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/internal/rbac"
	"mediconnect/internal/transport/http/shared"
	"mediconnect/pkg/requestcontext"
)

// TokenVerifier validates a bearer token and returns the principal it
// represents along with the token identifier used for revocation checks.
type TokenVerifier interface {
	Verify(tokenString string) (*rbac.Principal, string, error)
}

// RevocationChecker reports whether a token identifier has been revoked,
// e.g. by an explicit logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RequireAuth extracts and verifies the Authorization bearer token, rejects
// revoked tokens, and stores the principal and token identifier in the
// request context for downstream handlers.
func RequireAuth(verifier TokenVerifier, revocations RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				shared.WriteError(w, r, dErrors.New(dErrors.CodeUnauthorized, "Token missing"))
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				shared.WriteError(w, r, dErrors.New(dErrors.CodeUnauthorized, "Token missing"))
				return
			}

			principal, tokenID, err := verifier.Verify(tokenString)
			if err != nil {
				shared.WriteError(w, r, err)
				return
			}

			revoked, err := revocations.IsRevoked(ctx, tokenID)
			if err != nil {
				logger.ErrorContext(ctx, "revocation check failed", "error", err)
				shared.WriteError(w, r, dErrors.Internal())
				return
			}
			if revoked {
				shared.WriteError(w, r, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, principal)
			ctx = requestcontext.WithTokenID(ctx, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
