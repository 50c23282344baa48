package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/procureflow/procureflow-backend/api/middleware"
	"github.com/procureflow/procureflow-backend/api/responses"
	"github.com/procureflow/procureflow-backend/api/validators"
	"github.com/procureflow/procureflow-backend/internal/users"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	pkgerrors "github.com/procureflow/procureflow-backend/pkg/errors"
	"github.com/procureflow/procureflow-backend/pkg/logger"
	"github.com/procureflow/procureflow-backend/pkg/policy"
)

type userUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r userUpdateRequest) toInput(partial bool) users.UpdateUserInput {
	return users.UpdateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		IsActive: r.IsActive,
		Partial:  partial,
	}
}

// UsersList returns the active directory for the given role.
func UsersList(svc users.Service, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}

		out, err := svc.ListByRole(r.Context(), actor, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// UserGet returns a single active account with the given role.
func UserGet(svc users.Service, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.GetByRole(r.Context(), actor, role, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// UserUpdate overwrites an account's mutable fields.
func UserUpdate(svc users.Service, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return updateUser(svc, role, false, logg)
}

// UserPatch applies only the fields present in the payload.
func UserPatch(svc users.Service, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return updateUser(svc, role, true, logg)
}

func updateUser(svc users.Service, role enums.Role, partial bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body userUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.UpdateByRole(r.Context(), actor, role, id, body.toInput(partial))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// UserDelete deactivates an account. The row and its purchase requests remain.
func UserDelete(svc users.Service, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, svc != nil, logg)
		if !ok {
			return
		}
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateByRole(r.Context(), actor, role, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func userIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "userId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return id, nil
}

func requirePrincipal(w http.ResponseWriter, r *http.Request, svcOK bool, logg *logger.Logger) (policy.Principal, bool) {
	if !svcOK {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "service unavailable"))
		return policy.Principal{}, false
	}
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return policy.Principal{}, false
	}
	return principal, true
}
