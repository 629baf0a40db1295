// Package token issues and verifies the signed identity assertions that
// carry a user through one request. The token payload is the sole source of
// truth for role between login and expiry; the verifier never re-reads role
// from storage, so a role change takes effect at next login.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
)

// DefaultTTL is the validity window for issued tokens.
const DefaultTTL = time.Hour

// Claims are the JWT claims for access tokens. Subject carries the user ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service creates and validates access tokens. It is stateless: the signing
// secret is injected at construction and expiry is enforced here, by the
// verifier, not by callers.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL returns the validity window tokens are issued with.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue produces a signed token binding subject and role for the validity
// window. No side effects beyond token creation.
func (s *Service) Issue(subjectID domain.UserID, role rbac.Role) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Verify parses and validates a token and returns the principal it asserts
// plus the token's unique ID (for revocation tracking). Absent, malformed,
// signature-invalid, and expired tokens all fail closed.
func (s *Service) Verify(tokenString string) (*rbac.Principal, string, error) {
	if tokenString == "" {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "Token missing")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, "", dErrors.TokenExpired()
		}
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	}

	subjectID, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "Invalid token claims")
	}
	role, err := rbac.ParseRole(claims.Role)
	if err != nil {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "Invalid token claims")
	}

	return &rbac.Principal{SubjectID: subjectID, Role: role}, claims.ID, nil
}
