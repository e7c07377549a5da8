package controllers

import (
	"net/http"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/api/responses"
	"github.com/replyhub/replyhub-backend/api/validators"
	"github.com/replyhub/replyhub-backend/internal/auth"
	pkgAuth "github.com/replyhub/replyhub-backend/pkg/auth"
	"github.com/replyhub/replyhub-backend/pkg/config"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
)

// AuthSignup registers a new account. Store owners get a freshly allocated
// store code and an assignment row before the session is issued.
func AuthSignup(svc auth.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := pkgAuth.WriteSessionCookie(w, result.Session, cookieCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write session cookie"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthSignin authenticates credentials and sets the session cookie.
func AuthSignin(svc auth.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.SigninRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := pkgAuth.WriteSessionCookie(w, result.Session, cookieCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write session cookie"))
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthSignout revokes the server-side session and clears the cookie. The
// cookie is cleared even when revocation fails so the browser always ends up
// signed out.
func AuthSignout(svc auth.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := pkgAuth.ExtractToken(r)
		if token != "" {
			if err := svc.Signout(r.Context(), token); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "auth.signout.revoke_failed")
			}
		}
		pkgAuth.ClearSessionCookie(w, cookieCfg)
		responses.WriteSuccess(w, map[string]string{"message": "signed out"})
	}
}

// AuthRefreshToken exchanges an expired access token plus refresh token for a
// fresh session. Rejections come back as 401 TOKEN_REFRESH_FAILED.
func AuthRefreshToken(svc auth.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accessToken := pkgAuth.ExtractToken(r)
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNoToken, "authentication required"))
			return
		}

		result, err := svc.Refresh(r.Context(), accessToken, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := pkgAuth.WriteSessionCookie(w, result.Session, cookieCfg); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write session cookie"))
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthCurrentUser returns the authenticated user's profile.
func AuthCurrentUser(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAuthError, "missing identity"))
			return
		}

		user, err := svc.CurrentUser(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
