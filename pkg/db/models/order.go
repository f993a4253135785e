package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// Order is an immutable purchase record. Total and the line snapshots
// are captured at checkout and never recomputed afterwards.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	ItemsCount    int                 `gorm:"column:items_count;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Phone         string              `gorm:"column:phone;not null"`
	Address       string              `gorm:"column:address;not null"`
	City          string              `gorm:"column:city;not null"`
	PostalCode    *string             `gorm:"column:postal_code"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:confirmed"`
	Lines         []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
