package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/api/validators"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/rules"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// RulesList returns every reply rule. Reserved for operators and admins via
// routing; no extra scoping here.
func RulesList(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// RulesGet returns one rule after checking the caller may act on its store.
func RulesGet(svc rules.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, identity, err := ruleRequestContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := requireRuleStoreAccess(r, accessSvc, identity, svc, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

// RulesUpdate applies a partial patch to one rule, store-scoped like RulesGet.
func RulesUpdate(svc rules.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, identity, err := ruleRequestContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := requireRuleStoreAccess(r, accessSvc, identity, svc, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rules.UpdateRuleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func ruleRequestContext(r *http.Request) (uuid.UUID, access.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return uuid.Nil, access.Identity{}, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity")
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, access.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid rule id")
	}
	return id, identity, nil
}

func requireRuleStoreAccess(r *http.Request, accessSvc access.Service, identity access.Identity, svc rules.Service, id uuid.UUID) error {
	storeCode, err := svc.StoreCodeOf(r.Context(), id)
	if err != nil {
		return err
	}
	return accessSvc.RequireStoreAccess(r.Context(), identity, storeCode)
}
