package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/db"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
	"github.com/replyhub/replyhub-backend/pkg/security"
)

const storeCodePrefix = "STORE"

// Signup creates the user row and, for store owners, allocates the next store
// code and its assignment row — all inside one transaction.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		dto := users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(req.Name),
			Phone:        req.Phone,
			Role:         role,
		}

		if role == enums.RoleStoreOwner {
			maxCode, err := s.users.MaxStoreCode(ctx, tx)
			if err != nil {
				return fmt.Errorf("find max store code: %w", err)
			}
			next, err := nextStoreCode(maxCode)
			if err != nil {
				return fmt.Errorf("allocate store code: %w", err)
			}
			dto.StoreCode = &next
		}

		user, err := s.users.CreateTx(ctx, tx, dto)
		if err != nil {
			return err
		}

		if dto.StoreCode != nil {
			if err := s.assignments.CreateTx(ctx, tx, user.ID, *dto.StoreCode, role); err != nil {
				return fmt.Errorf("create store assignment: %w", err)
			}
		}

		created = user
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueSession(ctx, created, time.Now().UTC())
}

// nextStoreCode mints the next STORE+5-digit code, one greater than the
// current maximum.
func nextStoreCode(current string) (string, error) {
	if current == "" {
		return fmt.Sprintf("%s%05d", storeCodePrefix, 1), nil
	}
	if !strings.HasPrefix(current, storeCodePrefix) {
		return "", fmt.Errorf("unexpected store code %q", current)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(current, storeCodePrefix))
	if err != nil {
		return "", fmt.Errorf("unexpected store code %q", current)
	}
	return fmt.Sprintf("%s%05d", storeCodePrefix, n+1), nil
}
