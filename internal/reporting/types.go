package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

const (
	// BestSellerLimit caps the best-selling products list.
	BestSellerLimit = 5
	// RecentOrdersLimit caps the recent orders returned with the stats.
	RecentOrdersLimit = 10
)

// LineItem is one product line of an order as seen by the aggregator.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is the read model consumed by the aggregator.
type Order struct {
	ID           string            `json:"id"`
	OrderNumber  string            `json:"orderNumber"`
	Type         enums.OrderType   `json:"type"`
	TableNumber  *int              `json:"tableNumber,omitempty"`
	CustomerName *string           `json:"customerName,omitempty"`
	Items        []LineItem        `json:"items"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Tax          decimal.Decimal   `json:"tax"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	CreatedBy    string            `json:"createdBy,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// InventoryItem is the read model of a stocked item.
type InventoryItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStock      decimal.Decimal `json:"minStock"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Supplier      *string         `json:"supplier,omitempty"`
	LowStockAlert bool            `json:"lowStockAlert"`
}

// ProductSales is the accumulated quantity sold under one product name.
type ProductSales struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// DashboardStats is computed fresh on every request and never stored.
type DashboardStats struct {
	TodayRevenue        decimal.Decimal `json:"todayRevenue"`
	WeekRevenue         decimal.Decimal `json:"weekRevenue"`
	MonthRevenue        decimal.Decimal `json:"monthRevenue"`
	TodayOrders         int             `json:"todayOrders"`
	TodayCustomers      int             `json:"todayCustomers"`
	BestSellingProducts []ProductSales  `json:"bestSellingProducts"`
	LowStockItems       []InventoryItem `json:"lowStockItems"`
	RecentOrders        []Order         `json:"recentOrders"`
}

// WithRecentOrders returns a copy whose recent orders are cut to at most n.
func (s DashboardStats) WithRecentOrders(n int) DashboardStats {
	if n < 0 {
		n = 0
	}
	if len(s.RecentOrders) > n {
		s.RecentOrders = s.RecentOrders[:n:n]
	}
	return s
}

// RevenuePoint is one day of the revenue trend. Date is YYYY-MM-DD in the
// café's timezone; Label is the short French display form ("15 oct.").
type RevenuePoint struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}
