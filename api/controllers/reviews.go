package controllers

import (
	"net/http"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/api/validators"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/reviews"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
	"github.com/replyhub/replyhub-backend/pkg/pagination"
)

// ReviewsList returns a filtered, paginated page of reviews for one store.
func ReviewsList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := reviewFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ReviewsCreate records a review row for a store. The store scope comes from
// the body, so the check happens here rather than in routing middleware.
func ReviewsCreate(svc reviews.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity"))
			return
		}

		var body reviews.CreateReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := accessSvc.RequireStoreAccess(r.Context(), identity, body.StoreCode); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func reviewFilterFromQuery(r *http.Request) (reviews.ListFilter, error) {
	var filter reviews.ListFilter

	filter.StoreCode = r.URL.Query().Get("store_code")
	filter.PlatformCode = r.URL.Query().Get("platform_code")

	page, err := validators.ParseQueryInt(r, "page", 1, 1, pagination.MaxPage)
	if err != nil {
		return filter, err
	}
	filter.Page = page

	perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return filter, err
	}
	filter.PerPage = perPage

	from, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return filter, err
	}
	filter.From = from

	to, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return filter, err
	}
	filter.To = to

	return filter, nil
}
