package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutPayload carries the shipping and payment details for the order.
type CheckoutPayload struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Phone         string  `json:"phone" validate:"required,min=6,max=30"`
	Address       string  `json:"address" validate:"required,min=1,max=500"`
	City          string  `json:"city" validate:"required,min=1,max=100"`
	PostalCode    *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash_on_delivery card"`
}

// CheckoutResultDTO is returned once the order is committed.
type CheckoutResultDTO struct {
	OrderID    uuid.UUID       `json:"order_id"`
	Total      decimal.Decimal `json:"total"`
	ItemsCount int             `json:"items_count"`
}
