package products

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/poiu748/cafe-alya/pkg/db/models"
)

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)
	end := now.Add(24 * time.Hour)
	twenty := decimal.NewFromInt(20)

	base := models.Product{Price: decimal.RequireFromString("4.50")}

	cases := []struct {
		name    string
		product models.Product
		want    string
	}{
		{name: "no promotion", product: base, want: "4.50"},
		{
			name:    "running promotion",
			product: withPromo(base, &twenty, &start, &end, true),
			want:    "3.60",
		},
		{
			name:    "inactive promotion",
			product: withPromo(base, &twenty, &start, &end, false),
			want:    "4.50",
		},
		{
			name:    "not started",
			product: withPromo(base, &twenty, &end, nil, true),
			want:    "4.50",
		},
		{
			name:    "expired",
			product: withPromo(base, &twenty, nil, &start, true),
			want:    "4.50",
		},
		{
			name:    "window bounds are inclusive",
			product: withPromo(base, &twenty, &now, &now, true),
			want:    "3.60",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectivePrice(tc.product, now)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestEffectivePriceRoundsToCents(t *testing.T) {
	now := time.Now()
	pct := decimal.RequireFromString("33.33")
	p := withPromo(models.Product{Price: decimal.RequireFromString("2.99")}, &pct, nil, nil, true)

	got := EffectivePrice(p, now)
	assert.Equal(t, int32(-2), got.Exponent())
	assert.Equal(t, "1.99", got.StringFixed(2))
}

func withPromo(p models.Product, pct *decimal.Decimal, start, end *time.Time, active bool) models.Product {
	p.PromotionDiscountPercent = pct
	p.PromotionStartDate = start
	p.PromotionEndDate = end
	p.PromotionActive = active
	return p
}
