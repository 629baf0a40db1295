// Package rbac implements the role gate: a pure decision over a verified
// principal and a route's declared allowed-role set. Ownership rules beyond
// role (a doctor acting on their own appointment, say) live in the domain
// services, not here.
package rbac

import (
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
)

// Role is the closed set of account roles. Roles are fixed at registration
// and only ever read back out of a verified token.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// ParseRole validates a role string against the closed enumeration.
// Anything outside the set is rejected rather than passed through, so an
// unknown role can never reach an authorization decision.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	default:
		return "", dErrors.Validation("role", "must be PATIENT or DOCTOR")
	}
}

// Principal is the verified identity attached to one request. It is derived
// from a token by the identity service and lives only for the request.
type Principal struct {
	SubjectID domain.UserID
	Role      Role
}

// Authorize permits the principal iff its role is in the allowed set.
// Pure function: no I/O, no side effects.
//
// A nil principal means no token was verified yet and yields
// CodeUnauthorized; a verified principal outside the allowed set yields
// CodeForbidden. The two cases map to distinct codes on purpose.
func Authorize(principal *Principal, allowed ...Role) error {
	if principal == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "Token missing")
	}

	switch principal.Role {
	case RolePatient, RoleDoctor:
	default:
		// A principal with a role outside the enumeration can only come
		// from a token minted before a role was removed. Treat as denial.
		return dErrors.New(dErrors.CodeForbidden, "Forbidden: insufficient role")
	}

	for _, role := range allowed {
		if principal.Role == role {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeForbidden, "Forbidden: insufficient role")
}
