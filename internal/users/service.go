package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/procureflow-backend/pkg/db"
	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
	"github.com/procureflow/procureflow-backend/pkg/policy"
)

type usersRepository interface {
	ListActiveByRole(ctx context.Context, role enums.Role) ([]models.User, error)
	FindActiveByRoleAndID(ctx context.Context, role enums.Role, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service exposes directory administration over buyer and seller accounts.
type Service interface {
	ListByRole(ctx context.Context, actor policy.Principal, role enums.Role) ([]UserDTO, error)
	GetByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID) (*UserDTO, error)
	UpdateByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	DeactivateByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID) error
}

type service struct {
	repo usersRepository
}

// NewService builds a users service with the provided repository.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateUserInput captures the mutable account fields. Partial updates apply
// only the fields that are present; full updates require email and name.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	IsActive *bool
	Partial  bool
}

func listCapability(role enums.Role) (policy.Capability, bool) {
	switch role {
	case enums.RoleBuyer:
		return policy.CapListBuyers, true
	case enums.RoleSeller:
		return policy.CapListSellers, true
	default:
		return "", false
	}
}

func manageCapability(role enums.Role) (policy.Capability, bool) {
	switch role {
	case enums.RoleBuyer:
		return policy.CapManageBuyer, true
	case enums.RoleSeller:
		return policy.CapManageSeller, true
	default:
		return "", false
	}
}

func (s *service) authorize(actor policy.Principal, cap policy.Capability, ok bool) error {
	if !ok || !policy.Allows(actor, cap) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to perform this action.")
	}
	return nil
}

func (s *service) ListByRole(ctx context.Context, actor policy.Principal, role enums.Role) ([]UserDTO, error) {
	cap, ok := listCapability(role)
	if err := s.authorize(actor, cap, ok); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActiveByRole(ctx, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID) (*UserDTO, error) {
	cap, ok := manageCapability(role)
	if err := s.authorize(actor, cap, ok); err != nil {
		return nil, err
	}

	user, err := s.findInScope(ctx, role, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	cap, ok := manageCapability(role)
	if err := s.authorize(actor, cap, ok); err != nil {
		return nil, err
	}

	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	user, err := s.findInScope(ctx, role, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered").
				WithDetails(map[string]string{"email": "user with this email address already exists."})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) DeactivateByRole(ctx context.Context, actor policy.Principal, role enums.Role, id uuid.UUID) error {
	cap, ok := manageCapability(role)
	if err := s.authorize(actor, cap, ok); err != nil {
		return err
	}

	user, err := s.findInScope(ctx, role, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, user.ID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

func (s *service) findInScope(ctx context.Context, role enums.Role, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindActiveByRoleAndID(ctx, role, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func validateUpdateInput(input UpdateUserInput) error {
	details := map[string]string{}
	if !input.Partial {
		if input.Email == nil {
			details["email"] = "This field is required."
		}
		if input.Name == nil {
			details["name"] = "This field is required."
		}
	}
	if input.Email != nil && !strings.Contains(*input.Email, "@") {
		details["email"] = "Enter a valid email address."
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		details["name"] = "This field may not be blank."
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid user payload").WithDetails(details)
	}
	return nil
}
