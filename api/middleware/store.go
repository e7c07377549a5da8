package middleware

import (
	"net/http"

	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/internal/access"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// RequireStoreAccess checks that the authenticated identity may act on the
// store named by the store_code query parameter. Operators and admins pass
// unconditionally; everyone else needs a direct or assigned relationship.
func RequireStoreAccess(logg *logger.Logger, accessSvc access.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity"))
				return
			}
			storeCode := r.URL.Query().Get("store_code")
			if err := accessSvc.RequireStoreAccess(r.Context(), identity, storeCode); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
