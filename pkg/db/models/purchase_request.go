package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow-backend/pkg/enums"
)

// PurchaseRequest links a buyer and a seller to a single requested purchase.
// The buyer is always the authenticated creator; only the assigned seller may
// move the status. Rows are never deleted.
type PurchaseRequest struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null"`
	Buyer       *User               `gorm:"foreignKey:BuyerID"`
	SellerID    uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	Seller      *User               `gorm:"foreignKey:SellerID"`
	Status      enums.RequestStatus `gorm:"column:status;type:text;not null;default:'In-Process'"`
	Description string              `gorm:"column:description;type:text;not null"`
	TotalAmount decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
