package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/dbtest"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

func TestTierFor(t *testing.T) {
	cases := map[string]enums.LoyaltyTier{
		"0":       enums.LoyaltyTierBronze,
		"199.99":  enums.LoyaltyTierBronze,
		"200":     enums.LoyaltyTierSilver,
		"499.99":  enums.LoyaltyTierSilver,
		"500":     enums.LoyaltyTierGold,
		"999.99":  enums.LoyaltyTierGold,
		"1000":    enums.LoyaltyTierPlatinum,
		"25000.5": enums.LoyaltyTierPlatinum,
	}
	for spent, want := range cases {
		assert.Equal(t, want, TierFor(decimal.RequireFromString(spent)), spent)
	}
}

func TestPointsFor(t *testing.T) {
	assert.Equal(t, 12, PointsFor(decimal.RequireFromString("12.99")))
	assert.Equal(t, 0, PointsFor(decimal.RequireFromString("0.99")))
	assert.Equal(t, 0, PointsFor(decimal.RequireFromString("-5")))
}

func newTestService(t *testing.T) (Service, *time.Time) {
	t.Helper()
	conn := dbtest.Open(t)
	now := time.Date(2024, 10, 15, 10, 0, 0, 0, time.UTC)
	svc, err := NewService(NewRepository(conn), db.FromConn(conn), func() time.Time { return now })
	require.NoError(t, err)
	return svc, &now
}

func TestCreateCard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, CreateCardInput{CustomerName: "Sami", Phone: "06 12 34 56 78"})
	require.NoError(t, err)
	assert.Equal(t, 0, card.Points)
	assert.Equal(t, "bronze", card.Tier)
	assert.Equal(t, "0612345678", card.Phone)

	found, err := svc.FindByPhone(ctx, "06-12-34-56-78")
	require.NoError(t, err)
	assert.Equal(t, card.ID, found.ID)

	_, err = svc.CreateCard(ctx, CreateCardInput{CustomerName: "Other", Phone: "0612345678"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.CreateCard(ctx, CreateCardInput{Phone: "0700000000"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.FindByPhone(ctx, "0999999999")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddPointsPromotesTier(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, CreateCardInput{CustomerName: "Nora", Phone: "0611111111"})
	require.NoError(t, err)

	orderID := uuid.New()
	card, err = svc.AddPoints(ctx, card.ID, AddPointsInput{Amount: decimal.RequireFromString("199.60"), OrderID: &orderID})
	require.NoError(t, err)
	assert.Equal(t, 199, card.Points)
	assert.Equal(t, "bronze", card.Tier)

	*now = now.Add(time.Hour)
	card, err = svc.AddPoints(ctx, card.ID, AddPointsInput{Amount: decimal.RequireFromString("0.40")})
	require.NoError(t, err)
	assert.Equal(t, 199, card.Points)
	assert.Equal(t, "200.00", card.TotalSpent.StringFixed(2))
	assert.Equal(t, "silver", card.Tier)

	_, err = svc.AddPoints(ctx, card.ID, AddPointsInput{Amount: decimal.Zero})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	txns, err := svc.Transactions(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, 0, txns[0].Points)
	assert.Equal(t, 199, txns[1].Points)
	require.NotNil(t, txns[1].OrderID)
	assert.Equal(t, orderID, *txns[1].OrderID)
}

func TestRedeemNeverGoesNegative(t *testing.T) {
	svc, now := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, CreateCardInput{CustomerName: "Ali", Phone: "0622222222"})
	require.NoError(t, err)
	card, err = svc.AddPoints(ctx, card.ID, AddPointsInput{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	card, err = svc.RedeemPoints(ctx, card.ID, RedeemPointsInput{Points: 30, Description: "free croissant"})
	require.NoError(t, err)
	assert.Equal(t, 20, card.Points)

	*now = now.Add(time.Minute)
	card, err = svc.RedeemPoints(ctx, card.ID, RedeemPointsInput{Points: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, card.Points)
	assert.Equal(t, "bronze", card.Tier, "redeeming does not touch the tier")

	_, err = svc.RedeemPoints(ctx, card.ID, RedeemPointsInput{Points: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	txns, err := svc.Transactions(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "redeem", txns[0].Type)
	assert.Equal(t, 20, txns[0].Points)
	assert.Equal(t, "redemption", txns[0].Description)
	assert.Equal(t, "free croissant", txns[1].Description)
}

func TestUpdateAndDeleteCard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, CreateCardInput{CustomerName: "Eve", Phone: "0633333333"})
	require.NoError(t, err)

	email := "eve@example.com"
	updated, err := svc.UpdateCard(ctx, card.ID, UpdateCardInput{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCard(ctx, card.ID))
	_, err = svc.GetCard(ctx, card.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
