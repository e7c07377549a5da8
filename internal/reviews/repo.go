package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	"github.com/replyhub/replyhub-backend/pkg/pagination"
)

// RatingCount is one bucket of the per-rating breakdown.
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// StatusCount is one bucket of the per-reply-status breakdown.
type StatusCount struct {
	ReplyStatus enums.ReplyStatus `json:"reply_status"`
	Count       int64             `json:"count"`
}

// Repository exposes review persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) scoped(ctx context.Context, filter ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("store_code = ?", filter.StoreCode)
	if filter.PlatformCode != "" {
		q = q.Where("platform_code = ?", filter.PlatformCode)
	}
	if filter.From != nil {
		q = q.Where("review_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("review_date <= ?", *filter.To)
	}
	return q
}

// List returns one page of reviews plus the total count for the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Review, int64, error) {
	filter.Normalize()

	var total int64
	if err := r.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Review
	err := r.scoped(ctx, filter).
		Order("review_date DESC").
		Offset(pagination.Offset(filter.Page, filter.PerPage)).
		Limit(filter.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// CountByRating aggregates review counts per rating for the filter.
func (r *Repository) CountByRating(ctx context.Context, filter ListFilter) ([]RatingCount, error) {
	var counts []RatingCount
	err := r.scoped(ctx, filter).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Order("rating").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByStatus aggregates review counts per reply status for the filter.
func (r *Repository) CountByStatus(ctx context.Context, filter ListFilter) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.scoped(ctx, filter).
		Select("reply_status, COUNT(*) AS count").
		Group("reply_status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
