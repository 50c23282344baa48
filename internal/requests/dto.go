package requests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow-backend/internal/users"
	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
)

// BuyerRequestDTO is the buyer-facing transport shape. The seller reference is
// expanded into a summary rather than echoed as a bare id.
type BuyerRequestDTO struct {
	ID            uuid.UUID             `json:"id"`
	SellerDetails *users.UserSummaryDTO `json:"seller_details"`
	Description   string                `json:"description"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        enums.RequestStatus   `json:"status"`
}

// SellerRequestDTO is the seller-facing transport shape with the buyer expanded.
type SellerRequestDTO struct {
	ID          uuid.UUID             `json:"id"`
	Buyer       *users.UserSummaryDTO `json:"buyer"`
	Description string                `json:"description"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Status      enums.RequestStatus   `json:"status"`
}

// KPISummary aggregates a role's purchase requests by status.
type KPISummary struct {
	TotalPurchases int64 `json:"total_purchases"`
	InProcess      int64 `json:"in_process"`
	Approved       int64 `json:"approved"`
	Rejected       int64 `json:"rejected"`
}

// CreateRequestInput carries the raw creation payload. Pointers distinguish an
// absent field from a present but invalid one so that every violation can be
// reported in the same failure.
type CreateRequestInput struct {
	Seller      *string
	Description *string
	TotalAmount *decimal.Decimal
}

// UpdateStatusInput carries the raw status payload for the assigned seller.
type UpdateStatusInput struct {
	Status *string
}

func buyerDTOFromModel(r *models.PurchaseRequest) *BuyerRequestDTO {
	if r == nil {
		return nil
	}

	return &BuyerRequestDTO{
		ID:            r.ID,
		SellerDetails: users.SummaryFromModel(r.Seller),
		Description:   r.Description,
		TotalAmount:   r.TotalAmount,
		Status:        r.Status,
	}
}

func sellerDTOFromModel(r *models.PurchaseRequest) *SellerRequestDTO {
	if r == nil {
		return nil
	}

	return &SellerRequestDTO{
		ID:          r.ID,
		Buyer:       users.SummaryFromModel(r.Buyer),
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		Status:      r.Status,
	}
}
