package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
)

// Repository exposes purchase request persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a purchase requests repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new purchase request and reloads it with the seller expanded.
func (r *Repository) Create(ctx context.Context, request *models.PurchaseRequest) (*models.PurchaseRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}

	var created models.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Seller").
		First(&created, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// ListByBuyer returns the buyer's purchase requests in creation order with
// sellers expanded.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.PurchaseRequest, error) {
	var rows []models.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Seller").
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySeller returns the seller's assigned purchase requests in creation
// order with buyers expanded.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.PurchaseRequest, error) {
	var rows []models.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("seller_id = ?", sellerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDForSeller loads a purchase request only when it is assigned to the
// given seller. Requests belonging to other sellers are indistinguishable from
// missing rows.
func (r *Repository) FindByIDForSeller(ctx context.Context, sellerID, id uuid.UUID) (*models.PurchaseRequest, error) {
	var request models.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("seller_id = ?", sellerID).
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateStatus writes the new status for the given request.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseRequest{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// CountsByBuyer aggregates the buyer's purchase requests by status.
func (r *Repository) CountsByBuyer(ctx context.Context, buyerID uuid.UUID) (*KPISummary, error) {
	return r.counts(ctx, "buyer_id", buyerID)
}

// CountsBySeller aggregates the seller's assigned purchase requests by status.
func (r *Repository) CountsBySeller(ctx context.Context, sellerID uuid.UUID) (*KPISummary, error) {
	return r.counts(ctx, "seller_id", sellerID)
}

func (r *Repository) counts(ctx context.Context, column string, owner uuid.UUID) (*KPISummary, error) {
	var rows []struct {
		Status enums.RequestStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseRequest{}).
		Select("status, COUNT(*) AS total").
		Where(column+" = ?", owner).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &KPISummary{}
	for _, row := range rows {
		summary.TotalPurchases += row.Total
		switch row.Status {
		case enums.RequestStatusInProcess:
			summary.InProcess = row.Total
		case enums.RequestStatusApproved:
			summary.Approved = row.Total
		case enums.RequestStatusRejected:
			summary.Rejected = row.Total
		}
	}
	return summary, nil
}
