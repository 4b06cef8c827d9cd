package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/internal/inventory"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/metrics"
)

const lowStockJobName = "low-stock-sweep"

type lowStockReader interface {
	List(ctx context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error)
}

// LowStockJobParams configure the low-stock sweep.
type LowStockJobParams struct {
	Logger    *logger.Logger
	Inventory lowStockReader
	Publisher events.Publisher
	Gauges    *metrics.DashboardGauges
	Now       func() time.Time
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory lowStockReader
	publisher events.Publisher
	gauges    *metrics.DashboardGauges
	now       func() time.Time
}

// NewLowStockJob builds the job that re-announces every item at or below its
// minimum stock.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory reader required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &lowStockJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		publisher: params.Publisher,
		gauges:    params.Gauges,
		now:       now,
	}, nil
}

func (j *lowStockJob) Name() string { return lowStockJobName }

func (j *lowStockJob) Run(ctx context.Context) error {
	items, err := j.inventory.List(ctx, inventory.ListFilter{LowStockOnly: true})
	if err != nil {
		return fmt.Errorf("list low stock items: %w", err)
	}
	j.gauges.SetLowStockItems(len(items))

	failed := 0
	for _, item := range items {
		itemCtx := j.logg.WithFields(ctx, map[string]any{
			"item_id":       item.ID.String(),
			"item_name":     item.Name,
			"current_stock": item.CurrentStock.String(),
			"min_stock":     item.MinStock.String(),
			"unit":          item.Unit,
		})
		j.logg.Warn(itemCtx, "inventory.low_stock")

		err := j.publisher.Publish(ctx, events.Event{
			Type:        events.StockLow,
			AggregateID: item.ID,
			OccurredAt:  j.now(),
			Data: inventory.StockLowPayload{
				Name:         item.Name,
				CurrentStock: item.CurrentStock,
				MinStock:     item.MinStock,
				Unit:         item.Unit,
			},
		})
		if err != nil {
			failed++
			j.logg.Error(itemCtx, "inventory.publish_failed", err)
		}
	}

	summary := j.logg.WithFields(ctx, map[string]any{"low_stock": len(items), "publish_failed": failed})
	j.logg.Info(summary, "low stock sweep complete")
	if failed > 0 {
		return fmt.Errorf("%d of %d stock.low events not published", failed, len(items))
	}
	return nil
}
