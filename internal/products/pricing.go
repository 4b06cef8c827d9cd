package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// PromotionRunning reports whether the product's promotion applies at now.
// Both bounds are inclusive.
func PromotionRunning(p models.Product, now time.Time) bool {
	if !p.PromotionActive || p.PromotionDiscountPercent == nil {
		return false
	}
	if !p.PromotionDiscountPercent.IsPositive() {
		return false
	}
	if p.PromotionStartDate != nil && now.Before(*p.PromotionStartDate) {
		return false
	}
	if p.PromotionEndDate != nil && now.After(*p.PromotionEndDate) {
		return false
	}
	return true
}

// EffectivePrice is the unit price charged at now, rounded to cents.
func EffectivePrice(p models.Product, now time.Time) decimal.Decimal {
	if !PromotionRunning(p, now) {
		return p.Price.Round(2)
	}
	factor := hundred.Sub(*p.PromotionDiscountPercent).Div(hundred)
	price := p.Price.Mul(factor).Round(2)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}
