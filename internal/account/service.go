package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/audit"
	"mediconnect/pkg/platform/sentinel"
	"mediconnect/pkg/requestcontext"
)

const bcryptCost = 10

// TokenIssuer mints signed access tokens. TTL reports how long an issued
// token lives, which bounds how long a revocation entry must be kept.
type TokenIssuer interface {
	Issue(subjectID domain.UserID, role rbac.Role) (string, error)
	TTL() time.Duration
}

// Metrics counts account events. A nil-safe no-op is used when metrics are
// not wired (tests).
type Metrics interface {
	UserRegistered()
	LoginSucceeded()
	LoginFailed()
}

type noopMetrics struct{}

func (noopMetrics) UserRegistered() {}
func (noopMetrics) LoginSucceeded() {}
func (noopMetrics) LoginFailed()    {}

// Service owns registration, login, logout, and the doctor directory.
type Service struct {
	store       Store
	revocations RevocationList
	tokens      TokenIssuer
	recorder    *audit.Recorder
	metrics     Metrics
	logger      *slog.Logger
}

func NewService(store Store, revocations RevocationList, tokens TokenIssuer, recorder *audit.Recorder, metrics Metrics, logger *slog.Logger) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		store:       store,
		revocations: revocations,
		tokens:      tokens,
		recorder:    recorder,
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterInput carries a registration request. Role has already been
// parsed against the closed role set by the caller.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           rbac.Role
	Specialization string
}

// Register creates an account with a bcrypt-hashed password. Doctors must
// declare a specialization; patients must not.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	switch {
	case input.Name == "":
		return nil, dErrors.MissingField("name")
	case input.Email == "":
		return nil, dErrors.MissingField("email")
	case input.Password == "":
		return nil, dErrors.MissingField("password")
	}

	switch input.Role {
	case rbac.RoleDoctor:
		if input.Specialization == "" {
			return nil, dErrors.Validation("specialization", "doctors must declare a specialization")
		}
	case rbac.RolePatient:
		if input.Specialization != "" {
			return nil, dErrors.Validation("specialization", "only doctors have a specialization")
		}
	default:
		return nil, dErrors.Validation("role", "role must be PATIENT or DOCTOR")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "Could not process registration", err)
	}

	user := &User{
		ID:             domain.NewUserID(),
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Role:           input.Role,
		Specialization: input.Specialization,
		CreatedAt:      requestcontext.Now(ctx).UTC(),
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.AlreadyExists("User")
		}
		return nil, dErrors.Database(err)
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:   user.ID,
		ActorRole: string(user.Role),
		Action:    audit.ActionUserRegistered,
	}); err != nil {
		return nil, err
	}

	s.metrics.UserRegistered()
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	profile := user.Profile()
	return &profile, nil
}

// LoginResult carries the minted token and its lifetime in seconds.
type LoginResult struct {
	Token     string
	ExpiresIn int
}

// Login verifies credentials and mints a signed token. Lookup misses and
// password mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, dErrors.MissingField("email")
	}
	if password == "" {
		return nil, dErrors.MissingField("password")
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.LoginFailed()
			s.logger.WarnContext(ctx, "login rejected", "reason", "unknown account")
			return nil, dErrors.InvalidCredentials()
		}
		return nil, dErrors.Database(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.LoginFailed()
		s.logger.WarnContext(ctx, "login rejected", "reason", "bad password", "user_id", user.ID)
		return nil, dErrors.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "Could not issue token", err)
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:   user.ID,
		ActorRole: string(user.Role),
		Action:    audit.ActionUserLoggedIn,
	}); err != nil {
		return nil, err
	}

	s.metrics.LoginSucceeded()
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResult{
		Token:     token,
		ExpiresIn: int(s.tokens.TTL().Seconds()),
	}, nil
}

// Logout revokes the caller's current token. The revocation entry lives as
// long as the token could have, after which Redis expiry reclaims it.
func (s *Service) Logout(ctx context.Context) error {
	principal := requestcontext.Principal(ctx)
	if principal == nil {
		return dErrors.Unauthorized()
	}

	tokenID := requestcontext.TokenID(ctx)
	if tokenID != "" {
		if err := s.revocations.Revoke(ctx, tokenID, s.tokens.TTL()); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "Could not complete logout", err)
		}
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:   principal.SubjectID,
		ActorRole: string(principal.Role),
		Action:    audit.ActionUserLoggedOut,
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user logged out", "user_id", principal.SubjectID)
	return nil
}

// ListDoctors returns the doctor directory, sorted by name. Both roles may
// browse it.
func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	principal := requestcontext.Principal(ctx)
	if principal == nil {
		return nil, dErrors.Unauthorized()
	}

	users, err := s.store.ListDoctors(ctx)
	if err != nil {
		return nil, dErrors.Database(err)
	}

	doctors := make([]Doctor, 0, len(users))
	for _, user := range users {
		doctors = append(doctors, user.Doctor())
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:   principal.SubjectID,
		ActorRole: string(principal.Role),
		Action:    audit.ActionDoctorsViewed,
	}); err != nil {
		return nil, err
	}

	return doctors, nil
}

// GetDoctor looks up one user and confirms they hold the DOCTOR role. Used
// by appointment booking to reject bookings against non-doctors.
func (s *Service) GetDoctor(ctx context.Context, id domain.UserID) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("Doctor")
		}
		return nil, dErrors.Database(err)
	}
	if user.Role != rbac.RoleDoctor {
		return nil, dErrors.NotFound("Doctor")
	}
	return user, nil
}
