package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/procureflow-backend/internal/users"
	"github.com/procureflow/procureflow-backend/pkg/config"
	pkgmodels "github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	data      map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubRegisterUserRepo() *stubRegisterUserRepo {
	return &stubRegisterUserRepo{data: map[string]*pkgmodels.User{}}
}

func (s *stubRegisterUserRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := &pkgmodels.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		Name:         dto.Name,
		Role:         dto.Role,
		PasswordHash: dto.PasswordHash,
		IsActive:     true,
	}
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newRegisterTestService(t *testing.T, repo *stubRegisterUserRepo, env string) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return repo
		},
		AppConfig:      config.AppConfig{Env: env},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func sampleRegisterRequest(role string) RegisterRequest {
	return RegisterRequest{
		Email:     "New.Buyer@Example.com",
		Name:      "Jamie Rivera",
		Role:      role,
		Password:  "Secret123!",
		Password2: "Secret123!",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := newStubRegisterUserRepo()
	svc := newRegisterTestService(t, repo, config.AppEnvDev)

	dto, err := svc.Register(context.Background(), sampleRegisterRequest("Buyer"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "new.buyer@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if repo.created.Role != enums.RoleBuyer {
		t.Fatalf("expected Buyer role, got %s", repo.created.Role)
	}
	if repo.created.PasswordHash == "" || repo.created.PasswordHash == "Secret123!" {
		t.Fatal("expected password to be hashed")
	}
	if dto == nil || dto.ID != repo.created.ID {
		t.Fatalf("expected created user in response, got %+v", dto)
	}
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	svc := newRegisterTestService(t, newStubRegisterUserRepo(), config.AppEnvDev)

	req := sampleRegisterRequest("Seller")
	req.Password2 = "Different123!"
	_, err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["password"] != "Password fields didn't match." {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	svc := newRegisterTestService(t, newStubRegisterUserRepo(), config.AppEnvDev)

	_, err := svc.Register(context.Background(), sampleRegisterRequest(""))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["role"] != `"" is not a valid choice.` {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestRegisterBlocksSuperadminInProd(t *testing.T) {
	devRepo := newStubRegisterUserRepo()
	devSvc := newRegisterTestService(t, devRepo, config.AppEnvDev)
	if _, err := devSvc.Register(context.Background(), sampleRegisterRequest("Superadmin")); err != nil {
		t.Fatalf("expected superadmin registration outside prod, got %v", err)
	}

	prodSvc := newRegisterTestService(t, newStubRegisterUserRepo(), config.AppEnvProd)
	_, err := prodSvc.Register(context.Background(), sampleRegisterRequest("Superadmin"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error in prod, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubRegisterUserRepo()
	repo.data["new.buyer@example.com"] = &pkgmodels.User{ID: uuid.New(), Email: "new.buyer@example.com"}
	svc := newRegisterTestService(t, repo, config.AppEnvDev)

	_, err := svc.Register(context.Background(), sampleRegisterRequest("Buyer"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["email"] != "user with this email address already exists." {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestRegisterAggregatesViolations(t *testing.T) {
	svc := newRegisterTestService(t, newStubRegisterUserRepo(), config.AppEnvDev)

	_, err := svc.Register(context.Background(), RegisterRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	for _, field := range []string{"email", "name", "role", "password", "password2"} {
		if details[field] == "" {
			t.Fatalf("expected violation for %s, got %v", field, details)
		}
	}
}
