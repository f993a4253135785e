package pricing

import (
	"bytes"
	"time"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// ResolveActivePromotion picks the promotion that applies to a perfume
// at the reference time. Candidates must be flagged active and their
// date window must contain the reference date, both bounds inclusive.
// Among candidates the largest discount wins; ties are broken by the
// earliest start date, then by the smallest promotion ID, so the same
// input always resolves to the same promotion.
func ResolveActivePromotion(promotions []models.Promotion, ref time.Time) *models.Promotion {
	refDate := truncateToDate(ref)

	var winner *models.Promotion
	for i := range promotions {
		promo := &promotions[i]
		if !isCandidate(promo, refDate) {
			continue
		}
		if winner == nil || beats(promo, winner) {
			winner = promo
		}
	}
	return winner
}

func isCandidate(promo *models.Promotion, refDate time.Time) bool {
	if !promo.IsActive {
		return false
	}
	start := truncateToDate(promo.StartDate)
	end := truncateToDate(promo.EndDate)
	return !refDate.Before(start) && !refDate.After(end)
}

func beats(challenger, incumbent *models.Promotion) bool {
	if challenger.DiscountPercent != incumbent.DiscountPercent {
		return challenger.DiscountPercent > incumbent.DiscountPercent
	}
	challengerStart := truncateToDate(challenger.StartDate)
	incumbentStart := truncateToDate(incumbent.StartDate)
	if !challengerStart.Equal(incumbentStart) {
		return challengerStart.Before(incumbentStart)
	}
	return bytes.Compare(challenger.ID[:], incumbent.ID[:]) < 0
}

// truncateToDate drops the time-of-day component so window checks work
// at date granularity.
func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
