package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/api/middleware"
	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/internal/stores"
	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
)

type stubAccessService struct {
	resolved       []stores.StoreDescriptor
	resolveErr     error
	resolvedFor    []access.Identity
	storeAccessErr error
	checkedStores  []string
}

func (s *stubAccessService) RequireRole(identity access.Identity, roles ...enums.Role) error {
	return nil
}

func (s *stubAccessService) RequireStoreAccess(ctx context.Context, identity access.Identity, storeCode string) error {
	s.checkedStores = append(s.checkedStores, storeCode)
	return s.storeAccessErr
}

func (s *stubAccessService) ResolveUserStores(ctx context.Context, identity access.Identity) ([]stores.StoreDescriptor, error) {
	s.resolvedFor = append(s.resolvedFor, identity)
	return s.resolved, s.resolveErr
}

type stubAssignmentsService struct {
	count      int
	err        error
	lastUserID uuid.UUID
	lastStores []string
}

func (s *stubAssignmentsService) ReplaceForUser(ctx context.Context, userID uuid.UUID, storeCodes []string) (int, error) {
	s.lastUserID = userID
	s.lastStores = storeCodes
	return s.count, s.err
}

func (s *stubAssignmentsService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error) {
	return nil, nil
}

func storesRequest(target string, userID string, identity access.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("userID", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(middleware.WithIdentity(ctx, identity))
}

func TestStoresForUserSelfLookup(t *testing.T) {
	userID := uuid.New()
	accessSvc := &stubAccessService{resolved: []stores.StoreDescriptor{
		{StoreCode: "STORE00001", StoreName: "성수떡볶이", Platform: "배민"},
	}}
	handler := StoresForUser(&stubAuthService{}, accessSvc, nil)

	identity := access.Identity{UserID: userID, Role: enums.RoleUser}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storesRequest("/api/stores/user/"+userID.String()+"/stores", userID.String(), identity))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "성수떡볶이") {
		t.Fatal("expected resolved store in response")
	}
	if len(accessSvc.resolvedFor) != 1 || accessSvc.resolvedFor[0].UserID != userID {
		t.Fatal("expected resolution for the caller's own identity")
	}
}

func TestStoresForUserForeignLookupNeedsGlobalAccess(t *testing.T) {
	handler := StoresForUser(&stubAuthService{}, &stubAccessService{}, nil)

	identity := access.Identity{UserID: uuid.New(), Role: enums.RoleUser}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storesRequest("/api/stores/user/x/stores", uuid.NewString(), identity))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.Bytes()); code != "NO_STORE_ACCESS" {
		t.Fatalf("expected NO_STORE_ACCESS got %s", code)
	}
}

func TestStoresForUserOperatorViewsOthers(t *testing.T) {
	targetID := uuid.New()
	targetStore := "STORE00009"
	authSvc := &stubAuthService{currentUser: &users.UserDTO{
		ID:        targetID,
		Role:      enums.RoleStoreOwner,
		StoreCode: &targetStore,
	}}
	accessSvc := &stubAccessService{}
	handler := StoresForUser(authSvc, accessSvc, nil)

	identity := access.Identity{UserID: uuid.New(), Role: enums.RoleOperator}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storesRequest("/api/stores/user/x/stores", targetID.String(), identity))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(accessSvc.resolvedFor) != 1 {
		t.Fatal("expected one resolution")
	}
	resolved := accessSvc.resolvedFor[0]
	if resolved.UserID != targetID || resolved.Role != enums.RoleStoreOwner {
		t.Fatalf("expected resolution for target identity, got %+v", resolved)
	}
}

func TestStoresForUserRejectsBadUserID(t *testing.T) {
	handler := StoresForUser(&stubAuthService{}, &stubAccessService{}, nil)

	identity := access.Identity{UserID: uuid.New(), Role: enums.RoleAdmin}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, storesRequest("/api/stores/user/nope/stores", "not-a-uuid", identity))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReplaceAssignmentsReportsCount(t *testing.T) {
	svc := &stubAssignmentsService{count: 2}
	handler := ReplaceAssignments(svc, nil)

	userID := uuid.New()
	body := `{"user_id":"` + userID.String() + `","stores":["STORE00001","STORE00002"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/stores/assignments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUserID != userID {
		t.Fatal("expected target user forwarded to service")
	}
	if !strings.Contains(resp.Body.String(), `"assigned_stores":2`) {
		t.Fatalf("expected assigned_stores count, got %s", resp.Body.String())
	}
}

func TestReplaceAssignmentsEmptySetAllowed(t *testing.T) {
	svc := &stubAssignmentsService{count: 0}
	handler := ReplaceAssignments(svc, nil)

	body := `{"user_id":"` + uuid.NewString() + `","stores":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/stores/assignments", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"assigned_stores":0`) {
		t.Fatalf("expected zero assigned stores, got %s", resp.Body.String())
	}
	if len(svc.lastStores) != 0 {
		t.Fatal("expected empty store list forwarded")
	}
}
