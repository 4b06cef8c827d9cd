package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

// LoyaltyCard tracks a regular customer's points and lifetime spend.
type LoyaltyCard struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Phone        string            `gorm:"column:phone;not null;uniqueIndex"`
	Email        *string           `gorm:"column:email"`
	Points       int               `gorm:"column:points;not null;default:0"`
	Tier         enums.LoyaltyTier `gorm:"column:tier;type:text;not null;default:'bronze'"`
	TotalSpent   decimal.Decimal   `gorm:"column:total_spent;type:numeric(12,2);not null;default:0"`
	LastVisitAt  *time.Time        `gorm:"column:last_visit_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// LoyaltyTransaction is an append-only points ledger entry.
type LoyaltyTransaction struct {
	ID          uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CardID      uuid.UUID                    `gorm:"column:card_id;type:uuid;not null"`
	Type        enums.LoyaltyTransactionType `gorm:"column:type;type:text;not null"`
	Points      int                          `gorm:"column:points;not null"`
	Amount      decimal.Decimal              `gorm:"column:amount;type:numeric(12,2);not null"`
	OrderID     *uuid.UUID                   `gorm:"column:order_id;type:uuid"`
	Description string                       `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
