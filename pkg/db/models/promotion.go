package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is a time-windowed percentage discount on one perfume.
// DiscountPercent is constrained to [1, 90]; the window bounds are
// dates and both ends are inclusive.
type Promotion struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PerfumeID       uuid.UUID `gorm:"column:perfume_id;type:uuid;not null;index"`
	DiscountPercent int       `gorm:"column:discount_percent;not null"`
	StartDate       time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time `gorm:"column:end_date;type:date;not null"`
	Description     *string   `gorm:"column:description"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
