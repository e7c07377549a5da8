package assignments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

type assignmentsRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error)
	ReplaceForUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, storeCodes []string, roleType enums.Role) error
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes assignment operations.
type Service interface {
	ReplaceForUser(ctx context.Context, userID uuid.UUID, storeCodes []string) (int, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error)
}

type service struct {
	repo  assignmentsRepository
	users usersRepository
	tx    txRunner
}

// NewService builds an assignments service with the provided dependencies.
func NewService(repo assignmentsRepository, users usersRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, users: users, tx: tx}, nil
}

// ReplaceForUser swaps the user's full assignment set in one transaction and
// returns the number of stores now assigned. An empty set removes every
// assignment.
func (s *service) ReplaceForUser(ctx context.Context, userID uuid.UUID, storeCodes []string) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	codes := normalizeStoreCodes(storeCodes)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceForUserTx(ctx, tx, user.ID, codes, user.Role)
	}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace assignments")
	}

	return len(codes), nil
}

// ListForUser returns the assignment rows for one user.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return rows, nil
}

func normalizeStoreCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
