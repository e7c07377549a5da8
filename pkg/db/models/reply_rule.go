package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/replyhub/replyhub-backend/pkg/enums"
)

// ReplyRule is the per-store, per-platform reply configuration. Each store may
// carry one row per connected platform.
type ReplyRule struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreCode       string         `gorm:"column:store_code;not null;index"`
	StoreName       string         `gorm:"column:store_name"`
	Platform        enums.Platform `gorm:"column:platform;type:text;not null"`
	PlatformCode    string         `gorm:"column:platform_code;not null"`
	GreetingStart   string         `gorm:"column:greeting_start"`
	GreetingEnd     string         `gorm:"column:greeting_end"`
	Rating1Reply    bool           `gorm:"column:rating_1_reply;not null;default:true"`
	Rating2Reply    bool           `gorm:"column:rating_2_reply;not null;default:true"`
	Rating3Reply    bool           `gorm:"column:rating_3_reply;not null;default:true"`
	Rating4Reply    bool           `gorm:"column:rating_4_reply;not null;default:true"`
	Rating5Reply    bool           `gorm:"column:rating_5_reply;not null;default:true"`
	Tone            string         `gorm:"column:tone"`
	ProhibitedWords pq.StringArray `gorm:"column:prohibited_words;type:text[]"`
	MaxLength       int            `gorm:"column:max_length;not null;default:300"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
