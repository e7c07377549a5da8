package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/replyhub/replyhub-backend/pkg/enums"
)

// StoreAssignment grants a user access to one store code. It is the sole
// authorization record for roles without global store visibility.
type StoreAssignment struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_store_assignments_user_store,unique"`
	StoreCode string     `gorm:"column:store_code;not null;index:idx_store_assignments_user_store,unique"`
	RoleType  enums.Role `gorm:"column:role_type;type:text;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
