package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// Perfume is a catalog listing. Price is the live base price; the
// effective price shown to shoppers is derived from any active
// promotion at read time.
type Perfume struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Brand       string                `gorm:"column:brand;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.PerfumeCategory `gorm:"column:category;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	ImageURL    *string               `gorm:"column:image_url"`
	Promotions  []Promotion           `gorm:"foreignKey:PerfumeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
