package rules

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
)

// Repository exposes reply-rule persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rules repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every reply rule.
func (r *Repository) ListAll(ctx context.Context) ([]models.ReplyRule, error) {
	var rows []models.ReplyRule
	if err := r.db.WithContext(ctx).Order("store_code, platform").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStoreCodes returns the rules for the given store codes.
func (r *Repository) ListByStoreCodes(ctx context.Context, codes []string) ([]models.ReplyRule, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []models.ReplyRule
	err := r.db.WithContext(ctx).
		Where("store_code IN ?", codes).
		Order("store_code, platform").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one rule row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ReplyRule, error) {
	var rule models.ReplyRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// Save persists the full rule row.
func (r *Repository) Save(ctx context.Context, rule *models.ReplyRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}
