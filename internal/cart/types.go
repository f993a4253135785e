package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/internal/pricing"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// CartLineDTO pairs the captured unit price with the live promotion
// annotation so clients can show both without confusing them.
type CartLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	PerfumeID   uuid.UUID       `json:"perfume_id"`
	PerfumeName string          `json:"perfume_name"`
	Brand       string          `json:"brand"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	LivePricing pricing.Quote   `json:"live_pricing"`
}

// CartDTO is the whole cart with a subtotal over captured prices.
type CartDTO struct {
	Lines    []CartLineDTO   `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// AddToCartPayload adds or bumps a line. UnitPrice is advisory client
// state and is ignored; the server always re-resolves the price.
type AddToCartPayload struct {
	PerfumeID string  `json:"perfume_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,gte=1,lte=100"`
	UnitPrice *string `json:"unit_price,omitempty"`
}

func toLineDTO(line *models.CartLine, ref time.Time) CartLineDTO {
	dto := CartLineDTO{
		ID:        line.ID,
		PerfumeID: line.PerfumeID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
	}
	if line.Perfume != nil {
		dto.PerfumeName = line.Perfume.Name
		dto.Brand = line.Perfume.Brand
		dto.ImageURL = line.Perfume.ImageURL
		dto.LivePricing = pricing.QuoteFor(line.Perfume, ref)
	}
	return dto
}
