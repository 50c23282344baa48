package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow-backend/api/responses"
	"github.com/procureflow/procureflow-backend/api/validators"
	"github.com/procureflow/procureflow-backend/internal/requests"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
	"github.com/procureflow/procureflow-backend/pkg/logger"
)

type createPurchaseRequest struct {
	Seller      *string          `json:"seller"`
	Description *string          `json:"description"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// updateStatusRequest tolerates read-only fields in the payload; only status
// is consumed.
type updateStatusRequest struct {
	Status      *string         `json:"status"`
	Description json.RawMessage `json:"description,omitempty"`
	TotalAmount json.RawMessage `json:"total_amount,omitempty"`
}

// BuyerCreatePurchaseRequest files a new request on behalf of the buyer.
func BuyerCreatePurchaseRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		var body createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Create(r.Context(), actor, requests.CreateRequestInput{
			Seller:      body.Seller,
			Description: body.Description,
			TotalAmount: body.TotalAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// BuyerListPurchaseRequests returns the buyer's own requests.
func BuyerListPurchaseRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		out, err := svc.ListForBuyer(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// BuyerDashboard returns the buyer's purchase request KPIs.
func BuyerDashboard(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		out, err := svc.BuyerDashboard(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SellerListPurchaseRequests returns the requests assigned to the seller.
func SellerListPurchaseRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		out, err := svc.ListForSeller(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SellerGetPurchaseRequest returns one assigned request.
func SellerGetPurchaseRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "purchase request not found"))
			return
		}

		out, err := svc.GetForSeller(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SellerUpdatePurchaseRequest moves an assigned request to a new status.
func SellerUpdatePurchaseRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "purchase request not found"))
			return
		}

		var body updateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.UpdateStatus(r.Context(), actor, id, requests.UpdateStatusInput{Status: body.Status})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SellerDashboard returns the seller's purchase request KPIs.
func SellerDashboard(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		out, err := svc.SellerDashboard(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
