package middleware

import (
	"log/slog"
	"net/http"

	"mediconnect/internal/rbac"
	"mediconnect/internal/transport/http/shared"
	"mediconnect/pkg/requestcontext"
)

// DenialCounter counts authorization denials for observability.
type DenialCounter interface {
	IncrementAuthzDenials()
}

// RequireRole rejects requests whose verified principal is not in the
// allowed role set. Must run after RequireAuth.
func RequireRole(logger *slog.Logger, denials DenialCounter, allowed ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal := requestcontext.Principal(ctx)

			if err := rbac.Authorize(principal, allowed...); err != nil {
				if denials != nil {
					denials.IncrementAuthzDenials()
				}
				logger.WarnContext(ctx, "authorization denied",
					"path", r.URL.Path,
					"required_roles", roleNames(allowed),
				)
				shared.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func roleNames(roles []rbac.Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
