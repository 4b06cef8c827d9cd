package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
)

// CreateItemInput is the payload to start tracking a stocked item.
type CreateItemInput struct {
	Name         string          `json:"name" validate:"required"`
	Category     *string         `json:"category,omitempty"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	MinStock     decimal.Decimal `json:"minStock"`
	Unit         string          `json:"unit" validate:"required"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Supplier     *string         `json:"supplier,omitempty"`
}

// UpdateItemInput carries optional mutations. Stock levels change here only
// as corrections; day to day movements go through stock-in and stock-out.
type UpdateItemInput struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	CurrentStock *decimal.Decimal `json:"currentStock,omitempty"`
	MinStock     *decimal.Decimal `json:"minStock,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
}

// StockChangeInput is a stock-in or stock-out request.
type StockChangeInput struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}

// ListFilter narrows inventory listings.
type ListFilter struct {
	LowStockOnly bool
}

// ItemDTO is the inventory payload returned to clients.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      *string         `json:"category,omitempty"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStock      decimal.Decimal `json:"minStock"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Supplier      *string         `json:"supplier,omitempty"`
	LowStockAlert bool            `json:"lowStockAlert"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// MovementDTO is one stock movement.
type MovementDTO struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"itemId"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	CreatedBy *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewItemDTO(item models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		CurrentStock:  item.CurrentStock,
		MinStock:      item.MinStock,
		Unit:          item.Unit,
		UnitCost:      item.UnitCost,
		Supplier:      item.Supplier,
		LowStockAlert: item.LowStockAlert,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func NewMovementDTO(m models.StockMovement) MovementDTO {
	return MovementDTO{
		ID:        m.ID,
		ItemID:    m.InventoryItemID,
		Type:      m.Type.String(),
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// StockLowPayload is published when an item crosses into low stock.
type StockLowPayload struct {
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	MinStock     decimal.Decimal `json:"minStock"`
	Unit         string          `json:"unit"`
}
