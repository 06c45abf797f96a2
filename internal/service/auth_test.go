package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/forum/internal/domain"
	"github.com/msomdec/forum/internal/repository/sqlite"
	"github.com/msomdec/forum/internal/service"
)

const testSessionSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), db.Sessions(), service.NewBcryptHasher(4), service.NewJWTCodec(testSessionSecret), time.Hour)
	return auth, db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "new@example.com", "New User", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1" {
		t.Fatal("expected password to be stored as a hash")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dup@example.com", "User 1", "password123")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "dup@example.com", "User 2", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		display  string
		password string
	}{
		{"empty email", "", "Name", "password123"},
		{"empty display name", "a@b.com", "", "password123"},
		{"empty password", "a@b.com", "Name", ""},
		{"blank display name", "a@b.com", "   ", "password123"},
		{"malformed email", "not-an-email", "Name", "password123"},
		{"email with display part", "Someone <a@b.com>", "Name", "password123"},
		{"password over 72 bytes", "long@example.com", "Name", strings.Repeat("x", 80)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.email, tc.display, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "login@example.com", "Login User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailMatch(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "wrongpw@example.com", "User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPW := auth.Login(ctx, "wrongpw@example.com", "wrongpassword")
	_, _, unknown := auth.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(wrongPW, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", wrongPW)
	}
	if !errors.Is(unknown, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", unknown)
	}
	if wrongPW.Error() != unknown.Error() {
		t.Fatalf("expected identical errors, got %q and %q", wrongPW, unknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, _, err := auth.Login(context.Background(), "", "password123")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "session@example.com", "Session User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := auth.Login(ctx, "session@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, session, err := auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != registered.ID || session.UserID != registered.ID {
		t.Fatalf("expected user %d, got user %d session user %d", registered.ID, user.ID, session.UserID)
	}
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, _, err := auth.Authenticate(context.Background(), "not-a-valid-token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Authenticate_TamperedToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "tamper@example.com", "Tamper", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := auth.Login(ctx, "tamper@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Tamper with the token by replacing several characters in the signature.
	tampered := token[:len(token)-5] + "XXXXX"
	if _, _, err := auth.Authenticate(ctx, tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestAuthService_Authenticate_WrongSecret(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "secret@example.com", "Secret", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := auth.Login(ctx, "secret@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Same store, different signing secret.
	other := service.NewAuthService(db.Users(), db.Sessions(), service.NewBcryptHasher(4), service.NewJWTCodec("a-completely-different-secret-value!!"), time.Hour)
	if _, _, err := other.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestAuthService_Authenticate_ExpiredSession(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "expired@example.com", "Expired", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// The row has expired even though the token itself is still within its lifetime.
	now := time.Now().UTC()
	session := &domain.Session{ID: "expired-session", UserID: user.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	if err := db.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create session: %v", err)
	}
	token, err := service.NewJWTCodec(testSessionSecret).Issue(&domain.Session{ID: session.ID, UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "logout@example.com", "Logout", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := auth.Login(ctx, "logout@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, session, err := auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if err := auth.Logout(ctx, session.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
	if err := auth.Logout(ctx, session.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for second logout, got %v", err)
	}
}

func TestAuthService_Login_PurgesExpiredSessions(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "purge@example.com", "Purge", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	now := time.Now().UTC()
	stale := &domain.Session{ID: "stale", UserID: user.ID, CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-2 * time.Hour)}
	if err := db.Sessions().Create(ctx, stale); err != nil {
		t.Fatalf("Create session: %v", err)
	}

	if _, _, err := auth.Login(ctx, "purge@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := db.Sessions().GetByID(ctx, "stale"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected stale session to be purged, got %v", err)
	}
}

func TestAuthService_Register_PasswordAtBcryptLimit(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	password := strings.Repeat("x", 72)
	if _, err := auth.Register(ctx, "limit@example.com", "Limit", password); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := auth.Login(ctx, "limit@example.com", password); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestAuthService_Login_OverlongPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "long@example.com", "Long", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := auth.Login(ctx, "long@example.com", strings.Repeat("x", 80))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// countingHasher records how often each bcrypt operation runs.
type countingHasher struct {
	*service.BcryptHasher
	hashes, compares int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.BcryptHasher.Hash(password)
}

func (h *countingHasher) Compare(hash, password string) error {
	h.compares++
	return h.BcryptHasher.Compare(hash, password)
}

func TestAuthService_Login_UnknownEmailOnlyCompares(t *testing.T) {
	db := newTestDB(t)
	hasher := &countingHasher{BcryptHasher: service.NewBcryptHasher(4)}
	auth := service.NewAuthService(db.Users(), db.Sessions(), hasher, service.NewJWTCodec(testSessionSecret), time.Hour)

	if hasher.hashes != 1 {
		t.Fatalf("expected the dummy hash to be built up front, got %d hashes", hasher.hashes)
	}

	_, _, err := auth.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if hasher.hashes != 1 || hasher.compares != 1 {
		t.Fatalf("expected one compare and no extra hash, got hashes=%d compares=%d", hasher.hashes, hasher.compares)
	}
}
