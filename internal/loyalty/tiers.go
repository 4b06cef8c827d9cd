package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

var tierThresholds = []struct {
	min  decimal.Decimal
	tier enums.LoyaltyTier
}{
	{min: decimal.NewFromInt(1000), tier: enums.LoyaltyTierPlatinum},
	{min: decimal.NewFromInt(500), tier: enums.LoyaltyTierGold},
	{min: decimal.NewFromInt(200), tier: enums.LoyaltyTierSilver},
}

// TierFor maps lifetime spend to a tier.
func TierFor(totalSpent decimal.Decimal) enums.LoyaltyTier {
	for _, th := range tierThresholds {
		if totalSpent.GreaterThanOrEqual(th.min) {
			return th.tier
		}
	}
	return enums.LoyaltyTierBronze
}

// PointsFor awards one point per whole unit spent.
func PointsFor(amount decimal.Decimal) int {
	if !amount.IsPositive() {
		return 0
	}
	return int(amount.Floor().IntPart())
}
