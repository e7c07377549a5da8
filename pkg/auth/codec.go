package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/replyhub/replyhub-backend/pkg/config"
	"github.com/replyhub/replyhub-backend/pkg/types"
)

// SessionCookieName is the cookie carrying the JSON-encoded session.
const SessionCookieName = "session"

// ExtractToken pulls the access token from an incoming request. The
// Authorization header wins; the session cookie is the fallback. Returns the
// empty string when no usable token is present — never an error, so callers
// can treat garbage the same as absence.
func ExtractToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token != "" {
			return token
		}
	}

	session, ok := sessionFromCookie(r)
	if !ok {
		return ""
	}
	return session.AccessToken
}

// ExtractRefreshToken reads the refresh token from the session cookie only.
// Header-borne tokens are never refresh credentials.
func ExtractRefreshToken(r *http.Request) string {
	session, ok := sessionFromCookie(r)
	if !ok {
		return ""
	}
	return session.RefreshToken
}

func sessionFromCookie(r *http.Request) (types.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return types.Session{}, false
	}
	return DecodeSessionCookie(cookie.Value)
}

// DecodeSessionCookie parses a session cookie value, tolerating URL-encoding.
func DecodeSessionCookie(value string) (types.Session, bool) {
	candidate := value
	if unescaped, err := url.QueryUnescape(value); err == nil {
		candidate = unescaped
	}

	var session types.Session
	if err := json.Unmarshal([]byte(candidate), &session); err != nil {
		return types.Session{}, false
	}
	if session.AccessToken == "" {
		return types.Session{}, false
	}
	return session, true
}

// EncodeSessionCookie renders the session into a cookie-safe value.
func EncodeSessionCookie(session types.Session) (string, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

// WriteSessionCookie sets the session cookie on the response. HttpOnly is
// always on: the browser client reads its copy from storage, not the cookie.
func WriteSessionCookie(w http.ResponseWriter, session types.Session, cfg config.CookieConfig) error {
	value, err := EncodeSessionCookie(session)
	if err != nil {
		return err
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg config.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
