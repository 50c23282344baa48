package policy

import (
	"github.com/google/uuid"

	"github.com/procureflow/procureflow-backend/pkg/enums"
)

// Principal is the resolved authenticated actor. It is seeded into the request
// context by the auth middleware and consumed by every role-gated service.
type Principal struct {
	ID       uuid.UUID
	Role     enums.Role
	IsActive bool
}

// Capability names a permission gate checked before an operation runs.
type Capability string

const (
	CapListBuyers                  Capability = "list_buyers"
	CapManageBuyer                 Capability = "manage_buyer"
	CapListSellers                 Capability = "list_sellers"
	CapManageSeller                Capability = "manage_seller"
	CapCreatePurchaseRequest       Capability = "create_purchase_request"
	CapListBuyerPurchaseRequests   Capability = "list_buyer_purchase_requests"
	CapListSellerPurchaseRequests  Capability = "list_seller_purchase_requests"
	CapUpdatePurchaseRequestStatus Capability = "update_purchase_request_status"
)

// roleByCapability is the single enforcement table. Every gate maps to exactly
// one role; keeping the mapping here prevents drift between per-handler checks.
var roleByCapability = map[Capability]enums.Role{
	CapListBuyers:                  enums.RoleSuperadmin,
	CapManageBuyer:                 enums.RoleSuperadmin,
	CapListSellers:                 enums.RoleSuperadmin,
	CapManageSeller:                enums.RoleSuperadmin,
	CapCreatePurchaseRequest:       enums.RoleBuyer,
	CapListBuyerPurchaseRequests:   enums.RoleBuyer,
	CapListSellerPurchaseRequests:  enums.RoleSeller,
	CapUpdatePurchaseRequestStatus: enums.RoleSeller,
}

// Allows reports whether the principal may exercise the capability. A
// deactivated principal is denied everything regardless of role; that is the
// enforcement point for user soft deletion.
func Allows(p Principal, capability Capability) bool {
	if !p.IsActive {
		return false
	}
	role, known := roleByCapability[capability]
	if !known {
		return false
	}
	return p.Role == role
}
