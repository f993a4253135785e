package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// FinalPrice applies a percentage discount to a base price, rounding
// half-up to two decimal places. Discounts outside [1, 90] are treated
// as no discount and return the base price unchanged.
func FinalPrice(base decimal.Decimal, discountPercent int) decimal.Decimal {
	if discountPercent < 1 || discountPercent > 90 {
		return base
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(discountPercent)))
	return base.Mul(factor).Div(hundred).Round(2)
}

// QuoteFor resolves the active promotion for a perfume and returns the
// resulting price view at the reference time.
func QuoteFor(perfume *models.Perfume, ref time.Time) Quote {
	quote := Quote{
		ListPrice:  perfume.Price,
		FinalPrice: perfume.Price,
	}
	promo := ResolveActivePromotion(perfume.Promotions, ref)
	if promo == nil {
		return quote
	}
	id := promo.ID
	start := promo.StartDate
	end := promo.EndDate
	quote.HasPromotion = true
	quote.PromotionID = &id
	quote.DiscountPercent = promo.DiscountPercent
	quote.PromotionStart = &start
	quote.PromotionEnd = &end
	quote.Description = promo.Description
	quote.FinalPrice = FinalPrice(perfume.Price, promo.DiscountPercent)
	return quote
}
