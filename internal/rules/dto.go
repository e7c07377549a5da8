package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	"github.com/replyhub/replyhub-backend/pkg/enums"
)

// RuleDTO is the transport shape for one reply rule.
type RuleDTO struct {
	ID              uuid.UUID      `json:"id"`
	StoreCode       string         `json:"store_code"`
	StoreName       string         `json:"store_name"`
	Platform        enums.Platform `json:"platform"`
	PlatformCode    string         `json:"platform_code"`
	GreetingStart   string         `json:"greeting_start"`
	GreetingEnd     string         `json:"greeting_end"`
	Rating1Reply    bool           `json:"rating_1_reply"`
	Rating2Reply    bool           `json:"rating_2_reply"`
	Rating3Reply    bool           `json:"rating_3_reply"`
	Rating4Reply    bool           `json:"rating_4_reply"`
	Rating5Reply    bool           `json:"rating_5_reply"`
	Tone            string         `json:"tone"`
	ProhibitedWords []string       `json:"prohibited_words"`
	MaxLength       int            `json:"max_length"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// UpdateRuleRequest is the partial patch accepted by PUT /api/rules/{id}.
// The greeting, rating-toggle, and tone groups arrive from separate forms, so
// every field is optional.
type UpdateRuleRequest struct {
	GreetingStart   *string  `json:"greeting_start,omitempty"`
	GreetingEnd     *string  `json:"greeting_end,omitempty"`
	Rating1Reply    *bool    `json:"rating_1_reply,omitempty"`
	Rating2Reply    *bool    `json:"rating_2_reply,omitempty"`
	Rating3Reply    *bool    `json:"rating_3_reply,omitempty"`
	Rating4Reply    *bool    `json:"rating_4_reply,omitempty"`
	Rating5Reply    *bool    `json:"rating_5_reply,omitempty"`
	Tone            *string  `json:"tone,omitempty"`
	ProhibitedWords []string `json:"prohibited_words,omitempty"`
	MaxLength       *int     `json:"max_length,omitempty" validate:"omitempty,min=1,max=2000"`
}

func FromModel(r *models.ReplyRule) *RuleDTO {
	if r == nil {
		return nil
	}
	words := make([]string, len(r.ProhibitedWords))
	copy(words, r.ProhibitedWords)
	return &RuleDTO{
		ID:              r.ID,
		StoreCode:       r.StoreCode,
		StoreName:       r.StoreName,
		Platform:        r.Platform,
		PlatformCode:    r.PlatformCode,
		GreetingStart:   r.GreetingStart,
		GreetingEnd:     r.GreetingEnd,
		Rating1Reply:    r.Rating1Reply,
		Rating2Reply:    r.Rating2Reply,
		Rating3Reply:    r.Rating3Reply,
		Rating4Reply:    r.Rating4Reply,
		Rating5Reply:    r.Rating5Reply,
		Tone:            r.Tone,
		ProhibitedWords: words,
		MaxLength:       r.MaxLength,
		UpdatedAt:       r.UpdatedAt,
	}
}

func fromModels(rows []models.ReplyRule) []RuleDTO {
	out := make([]RuleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
