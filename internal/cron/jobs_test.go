package cron

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/internal/inventory"
	"github.com/poiu748/cafe-alya/internal/reporting"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/metrics"
)

type stubInventory struct {
	items  []models.InventoryItem
	filter inventory.ListFilter
	err    error
}

func (s *stubInventory) List(_ context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error) {
	s.filter = filter
	return s.items, s.err
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

type stubStats struct {
	stats *reporting.DashboardStats
	err   error
}

func (s *stubStats) Stats(context.Context) (*reporting.DashboardStats, error) {
	return s.stats, s.err
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: buf})
}

func TestLowStockJobPublishesEachItem(t *testing.T) {
	logs := &bytes.Buffer{}
	reg := prometheus.NewRegistry()
	now := time.Date(2024, 10, 15, 6, 0, 0, 0, time.UTC)
	items := []models.InventoryItem{
		{ID: uuid.New(), Name: "Lait", CurrentStock: decimal.RequireFromString("1.5"), MinStock: decimal.RequireFromString("4"), Unit: "L", LowStockAlert: true},
		{ID: uuid.New(), Name: "Sucre", CurrentStock: decimal.Zero, MinStock: decimal.RequireFromString("2"), Unit: "kg", LowStockAlert: true},
	}
	reader := &stubInventory{items: items}
	publisher := &recordingPublisher{}

	job, err := NewLowStockJob(LowStockJobParams{
		Logger:    testLogger(logs),
		Inventory: reader,
		Publisher: publisher,
		Gauges:    metrics.NewDashboardGauges(reg),
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)
	assert.Equal(t, "low-stock-sweep", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.True(t, reader.filter.LowStockOnly)
	require.Len(t, publisher.events, 2)
	assert.Equal(t, events.StockLow, publisher.events[0].Type)
	assert.Equal(t, items[1].ID, publisher.events[1].AggregateID)
	assert.Equal(t, now, publisher.events[0].OccurredAt)
	payload, ok := publisher.events[0].Data.(inventory.StockLowPayload)
	require.True(t, ok)
	assert.Equal(t, "Lait", payload.Name)

	assert.Equal(t, float64(2), gaugeValue(t, reg, "cafe_dashboard_low_stock_items"))
	assert.Contains(t, logs.String(), "inventory.low_stock")
}

func TestLowStockJobReportsPublishFailures(t *testing.T) {
	reader := &stubInventory{items: []models.InventoryItem{{ID: uuid.New(), Name: "Lait", LowStockAlert: true}}}
	job, err := NewLowStockJob(LowStockJobParams{
		Logger:    testLogger(&bytes.Buffer{}),
		Inventory: reader,
		Publisher: &recordingPublisher{err: errors.New("broker down")},
	})
	require.NoError(t, err)
	require.Error(t, job.Run(context.Background()))

	reader.err = errors.New("db down")
	require.Error(t, job.Run(context.Background()))
}

func TestDashboardGaugesJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := &stubStats{stats: &reporting.DashboardStats{
		TodayRevenue:  decimal.RequireFromString("245.30"),
		TodayOrders:   18,
		LowStockItems: []reporting.InventoryItem{{ID: "a"}},
	}}
	job, err := NewDashboardGaugesJob(testLogger(&bytes.Buffer{}), stats, metrics.NewDashboardGauges(reg))
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.InDelta(t, 245.30, gaugeValue(t, reg, "cafe_dashboard_today_revenue"), 0.001)
	assert.Equal(t, float64(18), gaugeValue(t, reg, "cafe_dashboard_today_orders"))
	assert.Equal(t, float64(1), gaugeValue(t, reg, "cafe_dashboard_low_stock_items"))

	stats.err = errors.New("timeout")
	require.Error(t, job.Run(context.Background()))
}

func TestJobConstructorsValidate(t *testing.T) {
	_, err := NewLowStockJob(LowStockJobParams{})
	require.Error(t, err)
	_, err = NewDashboardGaugesJob(nil, nil, nil)
	require.Error(t, err)
}
