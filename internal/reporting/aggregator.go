package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ComputeDashboardStats derives the dashboard snapshot from the full order
// and inventory collections. Day and month boundaries are taken in now's
// location. Inputs are not modified.
func ComputeDashboardStats(orders []Order, inventory []InventoryItem, now time.Time) DashboardStats {
	dayStart := startOfDay(now)
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := DashboardStats{
		TodayRevenue: decimal.Zero,
		WeekRevenue:  decimal.Zero,
		MonthRevenue: decimal.Zero,
	}

	for _, o := range orders {
		if !o.CreatedAt.Before(dayStart) {
			stats.TodayRevenue = stats.TodayRevenue.Add(o.Total)
			stats.TodayOrders++
		}
		if !o.CreatedAt.Before(weekStart) {
			stats.WeekRevenue = stats.WeekRevenue.Add(o.Total)
		}
		if !o.CreatedAt.Before(monthStart) {
			stats.MonthRevenue = stats.MonthRevenue.Add(o.Total)
		}
	}
	// One order counts as one customer.
	stats.TodayCustomers = stats.TodayOrders

	stats.BestSellingProducts = bestSellers(orders, BestSellerLimit)
	stats.LowStockItems = lowStock(inventory)
	stats.RecentOrders = recentOrders(orders, RecentOrdersLimit)
	return stats
}

// ComputeRevenueTrend returns one point per calendar day for the last days
// days, oldest first and ending with now's day. days <= 0 yields an empty
// slice.
func ComputeRevenueTrend(orders []Order, now time.Time, days int) []RevenuePoint {
	if days <= 0 {
		return []RevenuePoint{}
	}

	// Step by calendar day: 23h and 25h days around DST still get one point each.
	today := startOfDay(now)
	points := make([]RevenuePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		revenue := decimal.Zero
		for _, o := range orders {
			if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
				revenue = revenue.Add(o.Total)
			}
		}

		points = append(points, RevenuePoint{
			Date:    start.Format(time.DateOnly),
			Label:   FrenchShortDate(start),
			Revenue: revenue,
		})
	}
	return points
}

// bestSellers keys by product name, not id: two products sharing a display
// name are merged. Ties keep first-seen order.
func bestSellers(orders []Order, limit int) []ProductSales {
	index := map[string]int{}
	sales := []ProductSales{}
	for _, o := range orders {
		for _, item := range o.Items {
			pos, ok := index[item.ProductName]
			if !ok {
				pos = len(sales)
				index[item.ProductName] = pos
				sales = append(sales, ProductSales{ProductName: item.ProductName})
			}
			sales[pos].Quantity += item.Quantity
		}
	}

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Quantity > sales[j].Quantity
	})
	if len(sales) > limit {
		sales = sales[:limit]
	}
	return sales
}

func lowStock(inventory []InventoryItem) []InventoryItem {
	out := []InventoryItem{}
	for _, item := range inventory {
		if item.LowStockAlert {
			out = append(out, item)
		}
	}
	return out
}

func recentOrders(orders []Order, limit int) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
