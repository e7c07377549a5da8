package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/internal/stores"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

// Identity is the authenticated principal as seen by authorization checks.
type Identity struct {
	UserID    uuid.UUID
	Role      enums.Role
	StoreCode *string
}

type assignmentsRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error)
	Exists(ctx context.Context, userID uuid.UUID, storeCode string) (bool, error)
}

type storesRepository interface {
	ListAll(ctx context.Context) ([]models.StoreInfo, error)
	ListByCodes(ctx context.Context, codes []string) ([]models.StoreInfo, error)
}

type rulesRepository interface {
	ListAll(ctx context.Context) ([]models.ReplyRule, error)
	ListByStoreCodes(ctx context.Context, codes []string) ([]models.ReplyRule, error)
}

// Service answers the three authorization questions: does the identity hold a
// role, may it act on a store, and which stores can it see.
type Service interface {
	RequireRole(identity Identity, roles ...enums.Role) error
	RequireStoreAccess(ctx context.Context, identity Identity, storeCode string) error
	ResolveUserStores(ctx context.Context, identity Identity) ([]stores.StoreDescriptor, error)
}

type service struct {
	assignments assignmentsRepository
	stores      storesRepository
	rules       rulesRepository
}

// NewService builds an access service with the provided repositories.
func NewService(assignments assignmentsRepository, storesRepo storesRepository, rules rulesRepository) (Service, error) {
	if assignments == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if storesRepo == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rules repository required")
	}
	return &service{assignments: assignments, stores: storesRepo, rules: rules}, nil
}

// RequireRole rejects identities whose role is not in the allowed set.
func (s *service) RequireRole(identity Identity, roles ...enums.Role) error {
	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientRole, "insufficient role")
}

// RequireStoreAccess enforces the store-scoping rules. Roles with global store
// access always pass. A store owner passes when the requested code matches
// their own store_code. Everyone else needs an assignment row.
func (s *service) RequireStoreAccess(ctx context.Context, identity Identity, storeCode string) error {
	if storeCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store code is required")
	}
	if identity.Role.HasGlobalStoreAccess() {
		return nil
	}
	if identity.StoreCode != nil && *identity.StoreCode == storeCode {
		return nil
	}

	ok, err := s.assignments.Exists(ctx, identity.UserID, storeCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "check store assignment")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNoStoreAccess, "no access to store")
	}
	return nil
}

// ResolveUserStores returns the deduplicated, sorted store descriptors the
// identity may act upon. Global roles see every store.
func (s *service) ResolveUserStores(ctx context.Context, identity Identity) ([]stores.StoreDescriptor, error) {
	if identity.Role.HasGlobalStoreAccess() {
		infos, err := s.stores.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "list stores")
		}
		rules, err := s.rules.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "list reply rules")
		}
		return stores.MergeDescriptors(infos, rules), nil
	}

	rows, err := s.assignments.ListForUser(ctx, identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "list assignments")
	}

	codes := make([]string, 0, len(rows)+1)
	seen := make(map[string]struct{}, len(rows)+1)
	add := func(code string) {
		if code == "" {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	for _, row := range rows {
		add(row.StoreCode)
	}
	if identity.StoreCode != nil {
		add(*identity.StoreCode)
	}
	if len(codes) == 0 {
		return []stores.StoreDescriptor{}, nil
	}

	infos, err := s.stores.ListByCodes(ctx, codes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "list stores")
	}
	rules, err := s.rules.ListByStoreCodes(ctx, codes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreAccessError, err, "list reply rules")
	}
	return stores.MergeDescriptors(infos, rules), nil
}
