package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/auth"
	"github.com/replyhub/replyhub-backend/internal/users"
	pkgAuth "github.com/replyhub/replyhub-backend/pkg/auth"
	"github.com/replyhub/replyhub-backend/pkg/config"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/types"
)

type stubAuthService struct {
	signinResult  *auth.AuthResult
	signinErr     error
	signupResult  *auth.AuthResult
	signupErr     error
	refreshResult *auth.AuthResult
	refreshErr    error
	signoutErr    error
	signoutCalls  int
	currentUser   *users.UserDTO
	currentErr    error
	updated       *users.UserDTO
	updateErr     error
}

func (s *stubAuthService) Signin(ctx context.Context, req auth.SigninRequest) (*auth.AuthResult, error) {
	return s.signinResult, s.signinErr
}

func (s *stubAuthService) Signup(ctx context.Context, req auth.SignupRequest) (*auth.AuthResult, error) {
	return s.signupResult, s.signupErr
}

func (s *stubAuthService) Signout(ctx context.Context, accessToken string) error {
	s.signoutCalls++
	return s.signoutErr
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.AuthResult, error) {
	return s.refreshResult, s.refreshErr
}

func (s *stubAuthService) EnsureIdentity(ctx context.Context, claims *pkgAuth.AccessTokenClaims) (*models.User, error) {
	return nil, nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.currentUser, s.currentErr
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req auth.UpdateProfileRequest) (*users.UserDTO, error) {
	return s.updated, s.updateErr
}

func testSession() types.Session {
	return types.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
}

func testCookieConfig() config.CookieConfig {
	return config.CookieConfig{MaxAge: 24 * time.Hour}
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range resp.Result().Cookies() {
		if c.Name == pkgAuth.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestAuthSigninSetsSessionCookie(t *testing.T) {
	svc := &stubAuthService{
		signinResult: &auth.AuthResult{
			Session: testSession(),
			User:    &users.UserDTO{ID: uuid.New(), Email: "owner@example.com", Role: enums.RoleStoreOwner},
		},
	}
	handler := AuthSignin(svc, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"owner@example.com","password":"secret123"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	cookie := sessionCookie(t, resp)
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax got %v", cookie.SameSite)
	}
}

func TestAuthSigninRejectsBadCredentials(t *testing.T) {
	svc := &stubAuthService{signinErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthSignin(svc, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"owner@example.com","password":"wrong-pass"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.Bytes()); code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED got %s", code)
	}
}

func TestAuthSigninRejectsMalformedBody(t *testing.T) {
	handler := AuthSignin(&stubAuthService{}, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"x"`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthSignupReturnsCreated(t *testing.T) {
	storeCode := "STORE00042"
	svc := &stubAuthService{
		signupResult: &auth.AuthResult{
			Session: testSession(),
			User:    &users.UserDTO{ID: uuid.New(), Email: "new@example.com", Role: enums.RoleStoreOwner, StoreCode: &storeCode},
		},
	}
	handler := AuthSignup(svc, testCookieConfig(), nil)

	body := `{"email":"new@example.com","password":"secret123","name":"New Owner","role":"점주"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	sessionCookie(t, resp)
	if !strings.Contains(resp.Body.String(), "STORE00042") {
		t.Fatal("expected allocated store code in response")
	}
}

func TestAuthRefreshTokenFailureIs401(t *testing.T) {
	svc := &stubAuthService{refreshErr: pkgerrors.New(pkgerrors.CodeTokenRefreshFailed, "token refresh failed")}
	handler := AuthRefreshToken(svc, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", strings.NewReader(`{"refresh_token":"stale"}`))
	req.Header.Set("Authorization", "Bearer expired-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.Bytes()); code != "TOKEN_REFRESH_FAILED" {
		t.Fatalf("expected TOKEN_REFRESH_FAILED got %s", code)
	}
}

func TestAuthRefreshTokenRotatesCookie(t *testing.T) {
	svc := &stubAuthService{refreshResult: &auth.AuthResult{Session: testSession()}}
	handler := AuthRefreshToken(svc, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", strings.NewReader(`{"refresh_token":"current"}`))
	req.Header.Set("Authorization", "Bearer expired-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	sessionCookie(t, resp)
}

func TestAuthSignoutClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthSignout(svc, testCookieConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.signoutCalls != 1 {
		t.Fatalf("expected one signout call got %d", svc.signoutCalls)
	}
	cookie := sessionCookie(t, resp)
	if cookie.MaxAge >= 0 && cookie.Value != "" {
		t.Fatal("expected cleared session cookie")
	}
}

func TestAuthCurrentUserReturnsProfile(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{currentUser: &users.UserDTO{ID: userID, Email: "me@example.com", Role: enums.RoleUser}}
	handler := AuthCurrentUser(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), access.Identity{UserID: userID, Role: enums.RoleUser}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "me@example.com") {
		t.Fatal("expected profile in response")
	}
}

func TestAuthCurrentUserWithoutIdentityFails(t *testing.T) {
	handler := AuthCurrentUser(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
