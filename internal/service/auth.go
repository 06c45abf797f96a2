package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/forum/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

// AuthService handles registration, login, and the server-side session lifecycle.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	hasher     PasswordHasher
	tokens     TokenCodec
	sessionTTL time.Duration

	// dummyHash is compared against on unknown-email logins so both failure
	// paths spend the same bcrypt work.
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, hasher PasswordHasher, tokens TokenCodec, sessionTTL time.Duration) *AuthService {
	s := &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}

	hash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		slog.Error("generate dummy password hash", "error", err)
	}
	s.dummyHash = hash
	return s
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	if isBlank(email) || isBlank(displayName) || isBlank(password) {
		return nil, fmt.Errorf("%w: email, name, password required", domain.ErrInvalidInput)
	}

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, nil
}

// Login verifies credentials, opens a server-side session and returns the
// user together with the signed session token for the cookie. Unknown emails
// and wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (_ *domain.User, _ string, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	if isBlank(email) || isBlank(password) {
		return nil, "", fmt.Errorf("%w: email and password required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = s.hasher.Compare(s.dummyHash, password)
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}

	if n, err := s.sessions.DeleteExpired(ctx, time.Now().UTC()); err != nil {
		slog.Warn("purge expired sessions", "error", err)
	} else if n > 0 {
		slog.Debug("purged expired sessions", "count", n)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, "", err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, token, nil
}

// Authenticate resolves a session token to its live session and user.
// Every failure to do so is reported as domain.ErrUnauthorized, except store
// errors which are returned wrapped.
func (s *AuthService) Authenticate(ctx context.Context, token string) (_ *domain.User, _ *domain.Session, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Authenticate")
	defer func() {
		if errors.Is(err, domain.ErrUnauthorized) {
			span.End()
			return
		}
		endSpan(span, err)
	}()

	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID || session.Expired(time.Now()) {
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, session, nil
}

// Logout destroys the server-side session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Logout", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
