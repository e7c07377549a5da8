package controllers

import (
	"net/http"

	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/internal/stats"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// StatsDetails returns joined review statistics for one store plus a review
// page matching the same filter.
func StatsDetails(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := reviewFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		details, err := svc.Details(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}
