package middleware

import (
	"net/http"

	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// RequireRoles rejects requests whose authenticated role is not in the
// allowed set. It must run after AuthGate.
func RequireRoles(logg *logger.Logger, accessSvc access.Service, allowed ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity"))
				return
			}
			if err := accessSvc.RequireRole(identity, allowed...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
