package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/pkg/enums"
)

// Review is one imported customer review for a store+platform pairing.
type Review struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreCode    string            `gorm:"column:store_code;not null;index"`
	Platform     enums.Platform    `gorm:"column:platform;type:text;not null"`
	PlatformCode string            `gorm:"column:platform_code;not null"`
	Author       string            `gorm:"column:author"`
	Rating       int               `gorm:"column:rating;not null"`
	Content      string            `gorm:"column:content"`
	ReviewDate   time.Time         `gorm:"column:review_date;not null;index"`
	Reply        *string           `gorm:"column:reply"`
	ReplyStatus  enums.ReplyStatus `gorm:"column:reply_status;type:text;not null;default:'pending'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
