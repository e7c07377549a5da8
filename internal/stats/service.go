package stats

import (
	"context"
	"fmt"

	"github.com/replyhub/replyhub-backend/internal/reviews"
	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

type reviewsRepository interface {
	List(ctx context.Context, filter reviews.ListFilter) ([]models.Review, int64, error)
	CountByRating(ctx context.Context, filter reviews.ListFilter) ([]reviews.RatingCount, error)
	CountByStatus(ctx context.Context, filter reviews.ListFilter) ([]reviews.StatusCount, error)
}

// Details is the joined stats payload for one store and date range.
type Details struct {
	StoreCode     string              `json:"store_code"`
	TotalReviews  int64               `json:"total_reviews"`
	AverageRating float64             `json:"average_rating"`
	RatingCounts  map[int]int64       `json:"rating_counts"`
	RepliedCount  int64               `json:"replied_count"`
	PendingCount  int64               `json:"pending_count"`
	FailedCount   int64               `json:"failed_count"`
	ReplyRate     float64             `json:"reply_rate"`
	Reviews       []reviews.ReviewDTO `json:"reviews"`
	Page          int                 `json:"page"`
	PerPage       int                 `json:"per_page"`
}

// Service computes review statistics.
type Service interface {
	Details(ctx context.Context, filter reviews.ListFilter) (*Details, error)
}

type service struct {
	repo reviewsRepository
}

// NewService builds a stats service on top of the reviews repository.
func NewService(repo reviewsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

// Details aggregates totals, the per-rating breakdown, and the reply rate for
// the filter, plus one page of the underlying reviews.
func (s *service) Details(ctx context.Context, filter reviews.ListFilter) (*Details, error) {
	if filter.StoreCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_code is required")
	}
	filter.Normalize()

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	ratingCounts, err := s.repo.CountByRating(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ratings")
	}
	statusCounts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count reply statuses")
	}

	details := &Details{
		StoreCode:    filter.StoreCode,
		TotalReviews: total,
		RatingCounts: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Page:         filter.Page,
		PerPage:      filter.PerPage,
	}

	var ratingSum int64
	for _, bucket := range ratingCounts {
		details.RatingCounts[bucket.Rating] = bucket.Count
		ratingSum += int64(bucket.Rating) * bucket.Count
	}
	if total > 0 {
		details.AverageRating = float64(ratingSum) / float64(total)
	}

	for _, bucket := range statusCounts {
		switch bucket.ReplyStatus {
		case enums.ReplyStatusCompleted:
			details.RepliedCount = bucket.Count
		case enums.ReplyStatusPending:
			details.PendingCount = bucket.Count
		case enums.ReplyStatusFailed:
			details.FailedCount = bucket.Count
		}
	}
	if total > 0 {
		details.ReplyRate = float64(details.RepliedCount) / float64(total)
	}

	details.Reviews = make([]reviews.ReviewDTO, 0, len(rows))
	for i := range rows {
		details.Reviews = append(details.Reviews, *reviews.FromModel(&rows[i]))
	}

	return details, nil
}
