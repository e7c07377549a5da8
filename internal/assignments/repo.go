package assignments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
)

// Repository exposes store_assignments persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an assignments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns every assignment row for one user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.StoreAssignment, error) {
	var rows []models.StoreAssignment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Exists reports whether the user has an assignment row for the store code.
func (r *Repository) Exists(ctx context.Context, userID uuid.UUID, storeCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StoreAssignment{}).
		Where("user_id = ? AND store_code = ?", userID, storeCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTx inserts one assignment row inside an existing transaction.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, storeCode string, roleType enums.Role) error {
	row := models.StoreAssignment{
		UserID:    userID,
		StoreCode: storeCode,
		RoleType:  roleType,
	}
	return tx.WithContext(ctx).Create(&row).Error
}

// ReplaceForUserTx deletes the user's assignment rows and inserts the new set,
// all within the provided transaction. An empty set leaves the user with no
// assignments.
func (r *Repository) ReplaceForUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, storeCodes []string, roleType enums.Role) error {
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.StoreAssignment{}).Error; err != nil {
		return err
	}
	if len(storeCodes) == 0 {
		return nil
	}

	rows := make([]models.StoreAssignment, 0, len(storeCodes))
	for _, code := range storeCodes {
		rows = append(rows, models.StoreAssignment{
			UserID:    userID,
			StoreCode: code,
			RoleType:  roleType,
		})
	}
	return tx.WithContext(ctx).Create(&rows).Error
}
