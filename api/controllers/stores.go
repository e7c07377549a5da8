package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/api/validators"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/assignments"
	"github.com/replyhub/replyhub-backend/internal/auth"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// ReplaceAssignmentsRequest is the replace-set payload: the given stores
// become the user's complete assignment set.
type ReplaceAssignmentsRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Stores []string  `json:"stores"`
}

// StoresForUser lists every store the target user can act on. Callers may
// only look at themselves unless their role carries global store access.
func StoresForUser(authSvc auth.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity"))
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}

		if targetID != identity.UserID && !identity.Role.HasGlobalStoreAccess() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNoStoreAccess, "cannot view another user's stores"))
			return
		}

		target := identity
		if targetID != identity.UserID {
			user, err := authSvc.CurrentUser(r.Context(), targetID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			target = access.Identity{UserID: user.ID, Role: user.Role, StoreCode: user.StoreCode}
		}

		descriptors, err := accessSvc.ResolveUserStores(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": descriptors})
	}
}

// ReplaceAssignments swaps the target user's assignment set for the supplied
// stores in one transaction. An empty list removes every assignment.
func ReplaceAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ReplaceAssignmentsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.ReplaceForUser(r.Context(), body.UserID, body.Stores)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assigned_stores": count})
	}
}
