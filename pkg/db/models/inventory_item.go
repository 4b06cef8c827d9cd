package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

// InventoryItem is a stocked ingredient or supply. LowStockAlert mirrors
// CurrentStock <= MinStock and is written alongside every stock change.
type InventoryItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Category      *string         `gorm:"column:category"`
	CurrentStock  decimal.Decimal `gorm:"column:current_stock;type:numeric(12,3);not null;default:0"`
	MinStock      decimal.Decimal `gorm:"column:min_stock;type:numeric(12,3);not null;default:0"`
	Unit          string          `gorm:"column:unit;not null"`
	UnitCost      decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	Supplier      *string         `gorm:"column:supplier"`
	LowStockAlert bool            `gorm:"column:low_stock_alert;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// StockMovement is an append-only record of a stock adjustment.
type StockMovement struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryItemID uuid.UUID               `gorm:"column:inventory_item_id;type:uuid;not null"`
	Type            enums.StockMovementType `gorm:"column:type;type:text;not null"`
	Quantity        decimal.Decimal         `gorm:"column:quantity;type:numeric(12,3);not null"`
	Reason          string                  `gorm:"column:reason;not null;default:''"`
	CreatedBy       *uuid.UUID              `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
}
