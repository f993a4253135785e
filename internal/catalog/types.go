package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/internal/pricing"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// PerfumeDTO is the customer-facing view of a catalog item, annotated
// with the promotion resolved at read time.
type PerfumeDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Brand       string                `json:"brand"`
	Description *string               `json:"description,omitempty"`
	Category    enums.PerfumeCategory `json:"category"`
	Stock       int                   `json:"stock"`
	ImageURL    *string               `json:"image_url,omitempty"`
	Pricing     pricing.Quote         `json:"pricing"`
	CreatedAt   time.Time             `json:"created_at"`
}

// CreatePerfumePayload is the admin payload for a new catalog item.
type CreatePerfumePayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Brand       string  `json:"brand" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    string  `json:"category" validate:"required,oneof=men women unisex"`
	Price       string  `json:"price" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePerfumePayload carries partial updates for an existing item.
type UpdatePerfumePayload struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand       *string `json:"brand,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=men women unisex"`
	Price       *string `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// NewPerfumeDTO annotates a perfume with the promotion resolved at ref.
func NewPerfumeDTO(perfume *models.Perfume, ref time.Time) PerfumeDTO {
	return PerfumeDTO{
		ID:          perfume.ID,
		Name:        perfume.Name,
		Brand:       perfume.Brand,
		Description: perfume.Description,
		Category:    perfume.Category,
		Stock:       perfume.Stock,
		ImageURL:    perfume.ImageURL,
		Pricing:     pricing.QuoteFor(perfume, ref),
		CreatedAt:   perfume.CreatedAt,
	}
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if price.IsNegative() {
		return decimal.Zero, false
	}
	return price.Round(2), true
}
