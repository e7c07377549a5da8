package reviews

import (
	"context"
	"fmt"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

type reviewsRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Review, int64, error)
	Create(ctx context.Context, review *models.Review) error
}

// Service exposes review listing and creation. Store scoping is enforced by
// the caller before these methods run.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Create(ctx context.Context, req CreateReviewRequest) (*ReviewDTO, error)
}

type service struct {
	repo reviewsRepository
}

// NewService builds a reviews service with the provided repository.
func NewService(repo reviewsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.StoreCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_code is required")
	}
	filter.Normalize()

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return &ListResult{
		Reviews: fromModels(rows),
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateReviewRequest) (*ReviewDTO, error) {
	platform, err := enums.ParsePlatform(req.Platform)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid platform")
	}

	status := enums.ReplyStatusPending
	if req.ReplyStatus != nil {
		parsed, err := enums.ParseReplyStatus(*req.ReplyStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid reply status")
		}
		status = parsed
	}

	review := &models.Review{
		StoreCode:    req.StoreCode,
		Platform:     platform,
		PlatformCode: req.PlatformCode,
		Author:       req.Author,
		Rating:       req.Rating,
		Content:      req.Content,
		ReviewDate:   req.ReviewDate,
		Reply:        req.Reply,
		ReplyStatus:  status,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return FromModel(review), nil
}
