package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiu748/cafe-alya/internal/reporting"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

// OverviewRecentOrders is how many recent orders the dashboard view shows.
const OverviewRecentOrders = 5

// MaxTrendDays bounds the revenue trend window accepted from callers.
const MaxTrendDays = 365

// Service serves the back-office dashboard.
type Service interface {
	Stats(ctx context.Context) (*reporting.DashboardStats, error)
	Overview(ctx context.Context) (*reporting.DashboardStats, error)
	RevenueTrend(ctx context.Context, days int) ([]reporting.RevenuePoint, error)
}

type service struct {
	orders    OrderSource
	inventory InventorySource
	loc       *time.Location
	now       func() time.Time
}

// NewService builds a dashboard service. Day boundaries are taken in loc.
func NewService(orders OrderSource, inventory InventorySource, loc *time.Location, now func() time.Time) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order source is required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory source is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &service{orders: orders, inventory: inventory, loc: loc, now: now}, nil
}

func (s *service) Stats(ctx context.Context) (*reporting.DashboardStats, error) {
	var (
		orders []reporting.Order
		items  []reporting.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListAll(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.inventory.ListAll(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := reporting.ComputeDashboardStats(orders, items, s.localNow())
	return &stats, nil
}

func (s *service) Overview(ctx context.Context) (*reporting.DashboardStats, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	trimmed := stats.WithRecentOrders(OverviewRecentOrders)
	return &trimmed, nil
}

func (s *service) RevenueTrend(ctx context.Context, days int) ([]reporting.RevenuePoint, error) {
	if days > MaxTrendDays {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "days must be at most %d", MaxTrendDays)
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	return reporting.ComputeRevenueTrend(orders, s.localNow(), days), nil
}

func (s *service) localNow() time.Time {
	return s.now().In(s.loc)
}
