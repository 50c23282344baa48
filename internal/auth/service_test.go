package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/procureflow/procureflow-backend/pkg/auth"
	"github.com/procureflow/procureflow-backend/pkg/config"
	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
	"github.com/procureflow/procureflow-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "procureflow-test",
		ExpirationMinutes: 15,
	}
}

type stubLoginUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User

	lastLoginID uuid.UUID
	lastLoginAt time.Time
	loginErr    error
}

func newStubLoginUserRepo(users ...*models.User) *stubLoginUserRepo {
	repo := &stubLoginUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
	for _, u := range users {
		repo.byEmail[u.Email] = u
		repo.byID[u.ID] = u
	}
	return repo
}

func (s *stubLoginUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.lastLoginID = id
	s.lastLoginAt = at
	return nil
}

type stubSessionManager struct {
	generated string
	revoked   string
	err       error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.generated = accessID
	return nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = accessID
	return nil
}

func seedLoginUser(t *testing.T, password string, role enums.Role, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "casey@example.com",
		Name:         "Casey Reyes",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
}

func TestLoginSuccessMintsTokenAndSession(t *testing.T) {
	user := seedLoginUser(t, "Secret123!", enums.RoleBuyer, true)
	repo := newStubLoginUserRepo(user)
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Casey@Example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected user %s in response, got %+v", user.ID, resp.User)
	}
	if sessions.generated == "" {
		t.Fatal("expected session to be generated")
	}
	if repo.lastLoginID != user.ID {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.RoleBuyer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != sessions.generated {
		t.Fatalf("expected jti %q to match session %q", claims.ID, sessions.generated)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	user := seedLoginUser(t, "Secret123!", enums.RoleBuyer, true)
	svc, _ := NewService(ServiceParams{UserRepo: newStubLoginUserRepo(user), SessionManager: &stubSessionManager{}, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := NewService(ServiceParams{UserRepo: newStubLoginUserRepo(), SessionManager: &stubSessionManager{}, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "Secret123!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	user := seedLoginUser(t, "Secret123!", enums.RoleSeller, false)
	sessions := &stubSessionManager{}
	svc, _ := NewService(ServiceParams{UserRepo: newStubLoginUserRepo(user), SessionManager: sessions, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "Secret123!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if sessions.generated != "" {
		t.Fatal("expected no session for deactivated user")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc, _ := NewService(ServiceParams{UserRepo: newStubLoginUserRepo(), SessionManager: sessions, JWTConfig: testJWTConfig()})

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revoked != "access-id" {
		t.Fatalf("expected revoked access-id, got %q", sessions.revoked)
	}

	err := svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank access id, got %v", err)
	}
}

func TestCurrentUserReturnsProfile(t *testing.T) {
	user := seedLoginUser(t, "Secret123!", enums.RoleBuyer, true)
	svc, _ := NewService(ServiceParams{UserRepo: newStubLoginUserRepo(user), SessionManager: &stubSessionManager{}, JWTConfig: testJWTConfig()})

	dto, err := svc.CurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if dto.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, dto.Email)
	}

	_, err = svc.CurrentUser(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}
