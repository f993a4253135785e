package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is the priced view of a perfume at a point in time. FinalPrice
// equals ListPrice when no promotion applies. The same annotation is
// used at listing time, on cart mutations and on checkout display; it
// never replaces the snapshots stored on cart and order lines.
type Quote struct {
	ListPrice       decimal.Decimal `json:"list_price"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	HasPromotion    bool            `json:"has_active_promotion"`
	PromotionID     *uuid.UUID      `json:"promotion_id,omitempty"`
	DiscountPercent int             `json:"discount_percent,omitempty"`
	PromotionStart  *time.Time      `json:"promotion_start,omitempty"`
	PromotionEnd    *time.Time      `json:"promotion_end,omitempty"`
	Description     *string         `json:"promotion_description,omitempty"`
}
