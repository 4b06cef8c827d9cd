package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/pkg/db/dbtest"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

var fixedNow = time.Date(2024, 10, 15, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}

func TestCreateValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]CreateProductInput{
		"blank name":       {Name: "  ", Category: enums.ProductCategoryCoffee},
		"unknown category": {Name: "Latte", Category: "soup"},
		"negative price":   {Name: "Latte", Category: enums.ProductCategoryCoffee, Price: decimal.NewFromInt(-1)},
		"discount over 100": {
			Name: "Latte", Category: enums.ProductCategoryCoffee, Price: decimal.NewFromInt(4),
			Promotion: &PromotionInput{DiscountPercent: decimal.NewFromInt(101)},
		},
		"end before start": {
			Name: "Latte", Category: enums.ProductCategoryCoffee, Price: decimal.NewFromInt(4),
			Promotion: &PromotionInput{
				DiscountPercent: decimal.NewFromInt(10),
				StartDate:       timePtr(fixedNow),
				EndDate:         timePtr(fixedNow.Add(-time.Hour)),
			},
		},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, input)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Name:     " Cappuccino ",
		Category: enums.ProductCategoryCoffee,
		Price:    decimal.RequireFromString("3.80"),
		Promotion: &PromotionInput{
			DiscountPercent: decimal.NewFromInt(50),
			StartDate:       timePtr(fixedNow.Add(-time.Hour)),
			EndDate:         timePtr(fixedNow.Add(time.Hour)),
			Active:          true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Cappuccino", created.Name)
	assert.True(t, created.Available)
	assert.Equal(t, "1.90", created.EffectivePrice.StringFixed(2))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.80", got.Price.StringFixed(2))
	require.NotNil(t, got.Promotion)

	unavailable := false
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{
		Available:      &unavailable,
		ClearPromotion: true,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Nil(t, updated.Promotion)
	assert.Equal(t, "3.80", updated.EffectivePrice.StringFixed(2))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestListAndMenu(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	no := false
	inputs := []CreateProductInput{
		{Name: "Espresso", Category: enums.ProductCategoryCoffee, Price: decimal.NewFromInt(2)},
		{Name: "Croissant", Category: enums.ProductCategoryPastry, Price: decimal.NewFromInt(1)},
		{Name: "Americano", Category: enums.ProductCategoryCoffee, Price: decimal.NewFromInt(3)},
		{Name: "Mug", Category: enums.ProductCategoryMerchandise, Price: decimal.NewFromInt(9), Available: &no},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	coffee := enums.ProductCategoryCoffee
	coffees, err := svc.List(ctx, ListFilter{Category: &coffee})
	require.NoError(t, err)
	require.Len(t, coffees, 2)
	assert.Equal(t, "Americano", coffees[0].Name)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "coffee", menu[0].Category)
	assert.Len(t, menu[0].Products, 2)
	assert.Equal(t, "pastry", menu[1].Category)
}

func TestPriceLookup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Tea", Category: enums.ProductCategoryTea, Price: decimal.RequireFromString("2.40")})
	require.NoError(t, err)

	priced, err := svc.PriceLookup(ctx, []uuid.UUID{p.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, "Tea", priced[p.ID].Name)
	assert.Equal(t, "2.40", priced[p.ID].UnitPrice.StringFixed(2))
}

func timePtr(t time.Time) *time.Time { return &t }
