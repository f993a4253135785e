package promotions

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// PromotionDTO is the back-office view of a promotion.
type PromotionDTO struct {
	ID              uuid.UUID `json:"id"`
	PerfumeID       uuid.UUID `json:"perfume_id"`
	DiscountPercent int       `json:"discount_percent"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Description     *string   `json:"description,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreatePromotionPayload creates a new time-windowed discount.
type CreatePromotionPayload struct {
	PerfumeID       string  `json:"perfume_id" validate:"required,uuid"`
	DiscountPercent int     `json:"discount_percent" validate:"required,gte=1,lte=90"`
	StartDate       string  `json:"start_date" validate:"required"`
	EndDate         string  `json:"end_date" validate:"required"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// UpdatePromotionPayload carries partial updates.
type UpdatePromotionPayload struct {
	DiscountPercent *int    `json:"discount_percent,omitempty" validate:"omitempty,gte=1,lte=90"`
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

func toDTO(promo *models.Promotion) PromotionDTO {
	return PromotionDTO{
		ID:              promo.ID,
		PerfumeID:       promo.PerfumeID,
		DiscountPercent: promo.DiscountPercent,
		StartDate:       promo.StartDate.Format(dateLayout),
		EndDate:         promo.EndDate.Format(dateLayout),
		Description:     promo.Description,
		IsActive:        promo.IsActive,
		CreatedAt:       promo.CreatedAt,
	}
}
