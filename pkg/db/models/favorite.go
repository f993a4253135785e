package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a perfume a user wants to keep an eye on. The
// (user, perfume) pair is unique; a second insert is a conflict.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorites_user_perfume"`
	PerfumeID uuid.UUID `gorm:"column:perfume_id;type:uuid;not null;uniqueIndex:idx_favorites_user_perfume"`
	Perfume   *Perfume  `gorm:"foreignKey:PerfumeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
