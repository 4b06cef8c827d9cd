package cron

import (
	"context"
	"fmt"

	"github.com/poiu748/cafe-alya/internal/reporting"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/metrics"
)

const dashboardGaugesJobName = "dashboard-gauges"

type statsProvider interface {
	Stats(ctx context.Context) (*reporting.DashboardStats, error)
}

type dashboardGaugesJob struct {
	logg   *logger.Logger
	stats  statsProvider
	gauges *metrics.DashboardGauges
}

// NewDashboardGaugesJob builds the job that copies today's figures into
// Prometheus gauges.
func NewDashboardGaugesJob(logg *logger.Logger, stats statsProvider, gauges *metrics.DashboardGauges) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats provider required")
	}
	if gauges == nil {
		return nil, fmt.Errorf("gauges required")
	}
	return &dashboardGaugesJob{logg: logg, stats: stats, gauges: gauges}, nil
}

func (j *dashboardGaugesJob) Name() string { return dashboardGaugesJobName }

func (j *dashboardGaugesJob) Run(ctx context.Context) error {
	stats, err := j.stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("compute dashboard stats: %w", err)
	}
	j.gauges.SetTodayRevenue(stats.TodayRevenue)
	j.gauges.SetTodayOrders(stats.TodayOrders)
	j.gauges.SetLowStockItems(len(stats.LowStockItems))

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"today_revenue": stats.TodayRevenue.StringFixed(2),
		"today_orders":  stats.TodayOrders,
	})
	j.logg.Info(logCtx, "dashboard gauges refreshed")
	return nil
}
