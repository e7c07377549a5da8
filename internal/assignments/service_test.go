package assignments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

type stubAssignmentsRepo struct {
	replaced     []string
	replacedRole enums.Role
	rows         []models.StoreAssignment
}

func (s *stubAssignmentsRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error) {
	return s.rows, nil
}

func (s *stubAssignmentsRepo) ReplaceForUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, storeCodes []string, roleType enums.Role) error {
	s.replaced = storeCodes
	s.replacedRole = roleType
	return nil
}

type stubUsersRepo struct {
	user *models.User
	err  error
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestReplaceForUserDeduplicatesAndCounts(t *testing.T) {
	repo := &stubAssignmentsRepo{}
	users := &stubUsersRepo{user: &models.User{ID: uuid.New(), Role: enums.RoleStoreOwner}}
	svc, err := NewService(repo, users, passthroughTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	count, err := svc.ReplaceForUser(context.Background(), users.user.ID, []string{"STORE00001", " STORE00002 ", "STORE00001", ""})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 assigned stores, got %d", count)
	}
	if len(repo.replaced) != 2 || repo.replaced[0] != "STORE00001" || repo.replaced[1] != "STORE00002" {
		t.Fatalf("unexpected replaced codes: %v", repo.replaced)
	}
	if repo.replacedRole != enums.RoleStoreOwner {
		t.Fatalf("expected role_type from target user, got %q", repo.replacedRole)
	}
}

func TestReplaceForUserEmptySetRemovesAll(t *testing.T) {
	repo := &stubAssignmentsRepo{replaced: []string{"sentinel"}}
	users := &stubUsersRepo{user: &models.User{ID: uuid.New(), Role: enums.RoleUser}}
	svc, err := NewService(repo, users, passthroughTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	count, err := svc.ReplaceForUser(context.Background(), users.user.ID, nil)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 assigned stores, got %d", count)
	}
	if len(repo.replaced) != 0 {
		t.Fatalf("expected empty replacement set, got %v", repo.replaced)
	}
}

func TestReplaceForUserUnknownUser(t *testing.T) {
	repo := &stubAssignmentsRepo{}
	users := &stubUsersRepo{err: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, users, passthroughTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ReplaceForUser(context.Background(), uuid.New(), []string{"STORE00001"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
