package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one perfume in a user's cart. UnitPrice is the price
// snapshot captured when the line was last added or updated; it is
// never re-derived from the catalog afterwards.
type CartLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_perfume"`
	PerfumeID uuid.UUID       `gorm:"column:perfume_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_perfume"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Perfume   *Perfume        `gorm:"foreignKey:PerfumeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
