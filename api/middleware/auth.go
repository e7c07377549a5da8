package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/replyhub/replyhub-backend/api/responses"
	internalauth "github.com/replyhub/replyhub-backend/internal/auth"
	"github.com/replyhub/replyhub-backend/internal/access"
	pkgAuth "github.com/replyhub/replyhub-backend/pkg/auth"
	"github.com/replyhub/replyhub-backend/pkg/auth/session"
	"github.com/replyhub/replyhub-backend/pkg/config"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/logger"
	"github.com/replyhub/replyhub-backend/pkg/metrics"
)

const defaultLoginPath = "/login"

type authGateway interface {
	Refresh(ctx context.Context, accessToken, refreshToken string) (*internalauth.AuthResult, error)
	EnsureIdentity(ctx context.Context, claims *pkgAuth.AccessTokenClaims) (*models.User, error)
}

// AuthGateDeps bundles what the auth gate needs.
type AuthGateDeps struct {
	JWTConfig    config.JWTConfig
	CookieConfig config.CookieConfig
	Auth         authGateway
	Sessions     session.AccessSessionChecker
	Metrics      *metrics.RequestMetrics
	Logger       *logger.Logger
	Now          func() time.Time
	LoginPath    string
}

// AuthGate walks a request from raw token to attached identity: extract the
// token, refresh it server-side when expired, validate, then load (or
// provision) the user. Browser page navigations are redirected to the login
// page instead of receiving a JSON 401.
func AuthGate(deps AuthGateDeps) func(http.Handler) http.Handler {
	loginPath := deps.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.New(pkgerrors.CodeAuthError, "authentication error")
					if deps.Logger != nil {
						panicCtx := deps.Logger.WithFields(ctx, map[string]any{"panic": rec})
						deps.Logger.Error(panicCtx, "auth.panic", err)
					}
					responses.WriteError(ctx, deps.Logger, w, err)
				}
			}()

			token := pkgAuth.ExtractToken(r)
			if token == "" {
				rejectUnauthenticated(w, r, deps.Logger, loginPath,
					pkgerrors.New(pkgerrors.CodeNoToken, "authentication required"))
				return
			}

			if pkgAuth.IsExpired(token, now()) {
				refreshToken := pkgAuth.ExtractRefreshToken(r)
				if refreshToken == "" {
					rejectUnauthenticated(w, r, deps.Logger, loginPath,
						pkgerrors.New(pkgerrors.CodeInvalidToken, "session expired"))
					return
				}

				result, err := deps.Auth.Refresh(ctx, token, refreshToken)
				if err != nil {
					deps.Metrics.IncRefreshFailure()
					rejectUnauthenticated(w, r, deps.Logger, loginPath,
						pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "token refresh failed"))
					return
				}
				deps.Metrics.IncRefreshSuccess()

				// The renewed session rides out on this response so the
				// browser keeps working without a re-login.
				if err := pkgAuth.WriteSessionCookie(w, result.Session, deps.CookieConfig); err != nil {
					responses.WriteError(ctx, deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeAuthError, err, "write session cookie"))
					return
				}
				token = result.Session.AccessToken
			}

			claims, err := pkgAuth.ParseAccessToken(deps.JWTConfig, token)
			if err != nil {
				rejectUnauthenticated(w, r, deps.Logger, loginPath,
					pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "invalid token"))
				return
			}

			if deps.Sessions != nil {
				ok, err := deps.Sessions.HasSession(ctx, claims.ID)
				if err != nil {
					responses.WriteError(ctx, deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeAuthError, err, "validate session"))
					return
				}
				if !ok {
					rejectUnauthenticated(w, r, deps.Logger, loginPath,
						pkgerrors.New(pkgerrors.CodeInvalidToken, "session revoked"))
					return
				}
			}

			user, err := deps.Auth.EnsureIdentity(ctx, claims)
			if err != nil {
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}

			identity := access.Identity{
				UserID:    user.ID,
				Role:      user.Role,
				StoreCode: user.StoreCode,
			}
			ctx = WithIdentity(ctx, identity)

			if deps.Logger != nil {
				fields := map[string]any{
					"user_id": user.ID.String(),
					"role":    string(user.Role),
				}
				if user.StoreCode != nil {
					fields["store_code"] = *user.StoreCode
				}
				ctx = deps.Logger.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectUnauthenticated answers API callers with structured JSON and browser
// page navigations with a redirect to the login page.
func rejectUnauthenticated(w http.ResponseWriter, r *http.Request, logg *logger.Logger, loginPath string, err error) {
	if isPageRequest(r) {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}
	responses.WriteError(r.Context(), logg, w, err)
}

func isPageRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
