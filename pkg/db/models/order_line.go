package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine denormalizes everything needed to render an order. It
// deliberately carries no foreign key into the catalog: deleting or
// repricing a perfume must never alter a past order.
type OrderLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PerfumeID    uuid.UUID       `gorm:"column:perfume_id;type:uuid;not null"`
	PerfumeName  string          `gorm:"column:perfume_name;not null"`
	PerfumeBrand string          `gorm:"column:perfume_brand;not null"`
	ImageURL     *string         `gorm:"column:image_url"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
