package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/internal/access"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
)

type stubAssignments struct {
	exists map[string]bool
}

func (s stubAssignments) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error) {
	return nil, nil
}

func (s stubAssignments) Exists(ctx context.Context, userID uuid.UUID, storeCode string) (bool, error) {
	return s.exists[storeCode], nil
}

type stubStores struct{}

func (stubStores) ListAll(ctx context.Context) ([]models.StoreInfo, error) { return nil, nil }
func (stubStores) ListByCodes(ctx context.Context, codes []string) ([]models.StoreInfo, error) {
	return nil, nil
}

type stubRules struct{}

func (stubRules) ListAll(ctx context.Context) ([]models.ReplyRule, error) { return nil, nil }
func (stubRules) ListByStoreCodes(ctx context.Context, codes []string) ([]models.ReplyRule, error) {
	return nil, nil
}

func newTestAccessService(t *testing.T, assignments stubAssignments) access.Service {
	t.Helper()
	svc, err := access.NewService(assignments, stubStores{}, stubRules{})
	if err != nil {
		t.Fatalf("build access service: %v", err)
	}
	return svc
}

func requestWithIdentity(target string, identity access.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(WithIdentity(req.Context(), identity))
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{})
	handler := RequireRoles(nil, svc, enums.RoleOperator, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithIdentity("/api/rules", access.Identity{UserID: uuid.New(), Role: enums.RoleAdmin})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{})
	handler := RequireRoles(nil, svc, enums.RoleOperator, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithIdentity("/api/rules", access.Identity{UserID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRolesRejectsMissingIdentity(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{})
	handler := RequireRoles(nil, svc, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestRequireStoreAccessAllowsAssignedStore(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{exists: map[string]bool{"STORE00003": true}})
	handler := RequireStoreAccess(nil, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithIdentity("/api/reviews?store_code=STORE00003", access.Identity{UserID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireStoreAccessRejectsForeignStore(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{})
	handler := RequireStoreAccess(nil, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithIdentity("/api/reviews?store_code=STORE00009", access.Identity{UserID: uuid.New(), Role: enums.RoleUser})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireStoreAccessOperatorBypasses(t *testing.T) {
	svc := newTestAccessService(t, stubAssignments{})
	handler := RequireStoreAccess(nil, svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := requestWithIdentity("/api/reviews?store_code=STORE00042", access.Identity{UserID: uuid.New(), Role: enums.RoleOperator})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
