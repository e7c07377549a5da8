package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
)

// Repository exposes store_info persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a store repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every store_info row.
func (r *Repository) ListAll(ctx context.Context) ([]models.StoreInfo, error) {
	var infos []models.StoreInfo
	if err := r.db.WithContext(ctx).Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}

// ListByCodes returns the store_info rows for the given store codes.
func (r *Repository) ListByCodes(ctx context.Context, codes []string) ([]models.StoreInfo, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var infos []models.StoreInfo
	if err := r.db.WithContext(ctx).Where("store_code IN ?", codes).Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}

// FindByCode loads a single store_info row.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.StoreInfo, error) {
	var info models.StoreInfo
	if err := r.db.WithContext(ctx).First(&info, "store_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// Upsert inserts or updates a store_info row keyed by store_code.
func (r *Repository) Upsert(ctx context.Context, info *models.StoreInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}
