package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
	"github.com/procureflow/procureflow-backend/pkg/policy"
)

type requestsRepository interface {
	Create(ctx context.Context, request *models.PurchaseRequest) (*models.PurchaseRequest, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRequest, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.PurchaseRequest, error)
	FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*models.PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error
	CountsByBuyer(ctx context.Context, buyerID uuid.UUID) (*KPISummary, error)
	CountsBySeller(ctx context.Context, sellerID uuid.UUID) (*KPISummary, error)
}

type sellersRepository interface {
	FindByRoleAndID(ctx context.Context, role enums.Role, id uuid.UUID) (*models.User, error)
}

// Service exposes the purchase request workflow for buyers and sellers.
type Service interface {
	Create(ctx context.Context, actor policy.Principal, input CreateRequestInput) (*BuyerRequestDTO, error)
	ListForBuyer(ctx context.Context, actor policy.Principal) ([]BuyerRequestDTO, error)
	BuyerDashboard(ctx context.Context, actor policy.Principal) (*KPISummary, error)
	ListForSeller(ctx context.Context, actor policy.Principal) ([]SellerRequestDTO, error)
	GetForSeller(ctx context.Context, actor policy.Principal, id uuid.UUID) (*SellerRequestDTO, error)
	UpdateStatus(ctx context.Context, actor policy.Principal, id uuid.UUID, input UpdateStatusInput) (*SellerRequestDTO, error)
	SellerDashboard(ctx context.Context, actor policy.Principal) (*KPISummary, error)
}

type service struct {
	repo    requestsRepository
	sellers sellersRepository
}

// NewService builds a purchase request service with the provided repositories.
func NewService(repo requestsRepository, sellers sellersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if sellers == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	return &service{repo: repo, sellers: sellers}, nil
}

func forbidden() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to perform this action.")
}

// Create validates the full payload before any write. Every violated field is
// reported in the same failure, and the buyer is always the authenticated
// actor regardless of what the payload claims.
func (s *service) Create(ctx context.Context, actor policy.Principal, input CreateRequestInput) (*BuyerRequestDTO, error) {
	if !policy.Allows(actor, policy.CapCreatePurchaseRequest) {
		return nil, forbidden()
	}

	details := map[string]string{}

	var seller *models.User
	if input.Seller == nil || strings.TrimSpace(*input.Seller) == "" {
		details["seller"] = "Seller is required."
	} else {
		resolved, err := s.resolveSeller(ctx, strings.TrimSpace(*input.Seller))
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			details["seller"] = fmt.Sprintf("Invalid pk %q - object does not exist.", strings.TrimSpace(*input.Seller))
		}
		seller = resolved
	}

	if input.Description == nil || strings.TrimSpace(*input.Description) == "" {
		details["description"] = "Description is required."
	}

	switch {
	case input.TotalAmount == nil:
		details["total_amount"] = "Total amount is required."
	case input.TotalAmount.Cmp(decimal.Zero) <= 0:
		details["total_amount"] = "Total amount must be a positive value."
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase request payload").WithDetails(details)
	}

	request := &models.PurchaseRequest{
		BuyerID:     actor.ID,
		SellerID:    seller.ID,
		Status:      enums.RequestStatusInProcess,
		Description: *input.Description,
		TotalAmount: *input.TotalAmount,
	}

	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase request")
	}
	return buyerDTOFromModel(created), nil
}

func (s *service) ListForBuyer(ctx context.Context, actor policy.Principal) ([]BuyerRequestDTO, error) {
	if !policy.Allows(actor, policy.CapListBuyerPurchaseRequests) {
		return nil, forbidden()
	}

	rows, err := s.repo.ListByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase requests")
	}

	out := make([]BuyerRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *buyerDTOFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) BuyerDashboard(ctx context.Context, actor policy.Principal) (*KPISummary, error) {
	if !policy.Allows(actor, policy.CapListBuyerPurchaseRequests) {
		return nil, forbidden()
	}

	summary, err := s.repo.CountsByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate purchase requests")
	}
	return summary, nil
}

func (s *service) ListForSeller(ctx context.Context, actor policy.Principal) ([]SellerRequestDTO, error) {
	if !policy.Allows(actor, policy.CapListSellerPurchaseRequests) {
		return nil, forbidden()
	}

	rows, err := s.repo.ListBySeller(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase requests")
	}

	out := make([]SellerRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *sellerDTOFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetForSeller(ctx context.Context, actor policy.Principal, id uuid.UUID) (*SellerRequestDTO, error) {
	if !policy.Allows(actor, policy.CapListSellerPurchaseRequests) {
		return nil, forbidden()
	}

	request, err := s.repo.FindByIDForSeller(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase request")
	}
	return sellerDTOFromModel(request), nil
}

// UpdateStatus moves an assigned request to the submitted status. Any status
// may be submitted at any time, including the one already held. Requests
// assigned to other sellers read as missing.
func (s *service) UpdateStatus(ctx context.Context, actor policy.Principal, id uuid.UUID, input UpdateStatusInput) (*SellerRequestDTO, error) {
	if !policy.Allows(actor, policy.CapUpdatePurchaseRequestStatus) {
		return nil, forbidden()
	}

	status, err := validateStatus(input)
	if err != nil {
		return nil, err
	}

	request, err := s.repo.FindByIDForSeller(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase request")
	}

	if err := s.repo.UpdateStatus(ctx, request.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase request status")
	}

	request.Status = status
	return sellerDTOFromModel(request), nil
}

func (s *service) SellerDashboard(ctx context.Context, actor policy.Principal) (*KPISummary, error) {
	if !policy.Allows(actor, policy.CapListSellerPurchaseRequests) {
		return nil, forbidden()
	}

	summary, err := s.repo.CountsBySeller(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate purchase requests")
	}
	return summary, nil
}

// resolveSeller returns the referenced seller, or nil when the reference does
// not name an existing user with the Seller role.
func (s *service) resolveSeller(ctx context.Context, raw string) (*models.User, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil
	}

	seller, err := s.sellers.FindByRoleAndID(ctx, enums.RoleSeller, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve seller")
	}
	return seller, nil
}

func validateStatus(input UpdateStatusInput) (enums.RequestStatus, error) {
	if input.Status == nil || strings.TrimSpace(*input.Status) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status payload").
			WithDetails(map[string]string{"status": "Status is required."})
	}

	status, err := enums.ParseRequestStatus(*input.Status)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status payload").
			WithDetails(map[string]string{"status": fmt.Sprintf("%q is not a valid choice.", *input.Status)})
	}
	return status, nil
}
