package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
	"github.com/replyhub/replyhub-backend/pkg/pagination"
)

// ReviewDTO is the transport shape for one review.
type ReviewDTO struct {
	ID           uuid.UUID         `json:"id"`
	StoreCode    string            `json:"store_code"`
	Platform     enums.Platform    `json:"platform"`
	PlatformCode string            `json:"platform_code"`
	Author       string            `json:"author"`
	Rating       int               `json:"rating"`
	Content      string            `json:"content"`
	ReviewDate   time.Time         `json:"review_date"`
	Reply        *string           `json:"reply,omitempty"`
	ReplyStatus  enums.ReplyStatus `json:"reply_status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// CreateReviewRequest is the payload accepted by POST /api/reviews.
type CreateReviewRequest struct {
	StoreCode    string    `json:"store_code" validate:"required"`
	Platform     string    `json:"platform" validate:"required"`
	PlatformCode string    `json:"platform_code" validate:"required"`
	Author       string    `json:"author"`
	Rating       int       `json:"rating" validate:"required,min=1,max=5"`
	Content      string    `json:"content"`
	ReviewDate   time.Time `json:"review_date" validate:"required"`
	Reply        *string   `json:"reply,omitempty"`
	ReplyStatus  *string   `json:"reply_status,omitempty"`
}

// ListFilter narrows a review listing. StoreCode is mandatory; the rest are
// optional.
type ListFilter struct {
	StoreCode    string
	PlatformCode string
	From         *time.Time
	To           *time.Time
	Page         int
	PerPage      int
}

// Normalize applies the paging defaults.
func (f *ListFilter) Normalize() {
	f.Page = pagination.NormalizePage(f.Page)
	f.PerPage = pagination.NormalizePerPage(f.PerPage)
}

// ListResult is a page of reviews plus the total row count.
type ListResult struct {
	Reviews []ReviewDTO `json:"reviews"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:           r.ID,
		StoreCode:    r.StoreCode,
		Platform:     r.Platform,
		PlatformCode: r.PlatformCode,
		Author:       r.Author,
		Rating:       r.Rating,
		Content:      r.Content,
		ReviewDate:   r.ReviewDate,
		Reply:        r.Reply,
		ReplyStatus:  r.ReplyStatus,
		CreatedAt:    r.CreatedAt,
	}
}

func fromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
