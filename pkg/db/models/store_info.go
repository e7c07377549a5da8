package models

import (
	"time"

	"github.com/replyhub/replyhub-backend/pkg/types"
)

// StoreInfo is the generic store metadata table populated by the review
// importer. Meta may carry platform hints that reply_rules rows override.
type StoreInfo struct {
	StoreCode string          `gorm:"column:store_code;primaryKey"`
	StoreName string          `gorm:"column:store_name;not null"`
	Meta      types.StoreMeta `gorm:"column:meta;type:jsonb"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (StoreInfo) TableName() string {
	return "store_info"
}
