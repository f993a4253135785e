package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// OrderLineDTO is the immutable snapshot of one purchased item.
type OrderLineDTO struct {
	ID           uuid.UUID       `json:"id"`
	PerfumeID    uuid.UUID       `json:"perfume_id"`
	PerfumeName  string          `json:"perfume_name"`
	PerfumeBrand string          `json:"perfume_brand"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// OrderDTO is the customer view of an order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	Total         decimal.Decimal     `json:"total"`
	ItemsCount    int                 `json:"items_count"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CustomerName  string              `json:"customer_name"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	PostalCode    *string             `json:"postal_code,omitempty"`
	Lines         []OrderLineDTO      `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// AdminOrderDTO adds the account identity to the order view.
type AdminOrderDTO struct {
	OrderDTO
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email,omitempty"`
}

// AdminListFilter narrows the back-office order listing.
type AdminListFilter struct {
	From   *time.Time
	To     *time.Time
	Status *enums.OrderStatus
}

// UpdateOrderStatusPayload moves an order between fulfilment states.
type UpdateOrderStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=confirmed processing delivered cancelled"`
}

func toLineDTO(line *models.OrderLine) OrderLineDTO {
	return OrderLineDTO{
		ID:           line.ID,
		PerfumeID:    line.PerfumeID,
		PerfumeName:  line.PerfumeName,
		PerfumeBrand: line.PerfumeBrand,
		ImageURL:     line.ImageURL,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineTotal:    line.LineTotal,
	}
}

// NewOrderDTO maps an order, optionally including its snapshot lines.
func NewOrderDTO(order *models.Order, includeLines bool) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		Total:         order.Total,
		ItemsCount:    order.ItemsCount,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Address:       order.Address,
		City:          order.City,
		PostalCode:    order.PostalCode,
		CreatedAt:     order.CreatedAt,
	}
	if includeLines {
		dto.Lines = make([]OrderLineDTO, 0, len(order.Lines))
		for i := range order.Lines {
			dto.Lines = append(dto.Lines, toLineDTO(&order.Lines[i]))
		}
	}
	return dto
}
