package dashboard

import (
	"context"

	"github.com/poiu748/cafe-alya/internal/inventory"
	"github.com/poiu748/cafe-alya/internal/reporting"
	"github.com/poiu748/cafe-alya/pkg/db/models"
)

// OrderSource supplies every order the aggregator should see.
type OrderSource interface {
	ListAll(ctx context.Context) ([]reporting.Order, error)
}

// InventorySource supplies every stocked item.
type InventorySource interface {
	ListAll(ctx context.Context) ([]reporting.InventoryItem, error)
}

type orderLister interface {
	ListAll(ctx context.Context) ([]models.Order, error)
}

type inventoryLister interface {
	List(ctx context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error)
}

type orderSource struct {
	repo orderLister
}

// NewOrderSource adapts the orders repository to the aggregator's read model.
func NewOrderSource(repo orderLister) OrderSource {
	return &orderSource{repo: repo}
}

func (s *orderSource) ListAll(ctx context.Context) ([]reporting.Order, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reporting.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToReportingOrder(row))
	}
	return out, nil
}

type inventorySource struct {
	repo inventoryLister
}

func NewInventorySource(repo inventoryLister) InventorySource {
	return &inventorySource{repo: repo}
}

func (s *inventorySource) ListAll(ctx context.Context) ([]reporting.InventoryItem, error) {
	rows, err := s.repo.List(ctx, inventory.ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]reporting.InventoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToReportingItem(row))
	}
	return out, nil
}

func ToReportingOrder(o models.Order) reporting.Order {
	items := make([]reporting.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, reporting.LineItem{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	out := reporting.Order{
		ID:           o.ID.String(),
		OrderNumber:  o.OrderNumber,
		Type:         o.Type,
		TableNumber:  o.TableNumber,
		CustomerName: o.CustomerName,
		Items:        items,
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		Total:        o.Total,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.CreatedBy != nil {
		out.CreatedBy = o.CreatedBy.String()
	}
	return out
}

func ToReportingItem(item models.InventoryItem) reporting.InventoryItem {
	return reporting.InventoryItem{
		ID:            item.ID.String(),
		Name:          item.Name,
		CurrentStock:  item.CurrentStock,
		MinStock:      item.MinStock,
		Unit:          item.Unit,
		UnitCost:      item.UnitCost,
		Supplier:      item.Supplier,
		LowStockAlert: item.LowStockAlert,
	}
}
