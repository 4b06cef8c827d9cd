package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// DashboardGauges mirrors the live dashboard figures so they can be graphed
// outside the back office.
type DashboardGauges struct {
	todayRevenue  prometheus.Gauge
	todayOrders   prometheus.Gauge
	lowStockItems prometheus.Gauge
}

func NewDashboardGauges(reg prometheus.Registerer) *DashboardGauges {
	if reg == nil {
		return &DashboardGauges{}
	}
	g := &DashboardGauges{
		todayRevenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "today_revenue",
			Help:      "Revenue taken since local midnight, tax included.",
		}),
		todayOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "today_orders",
			Help:      "Orders placed since local midnight.",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "low_stock_items",
			Help:      "Inventory items at or below their minimum stock.",
		}),
	}
	reg.MustRegister(g.todayRevenue, g.todayOrders, g.lowStockItems)
	return g
}

func (g *DashboardGauges) SetTodayRevenue(v decimal.Decimal) {
	if g == nil || g.todayRevenue == nil {
		return
	}
	g.todayRevenue.Set(v.InexactFloat64())
}

func (g *DashboardGauges) SetTodayOrders(n int) {
	if g == nil || g.todayOrders == nil {
		return
	}
	g.todayOrders.Set(float64(n))
}

func (g *DashboardGauges) SetLowStockItems(n int) {
	if g == nil || g.lowStockItems == nil {
		return
	}
	g.lowStockItems.Set(float64(n))
}
