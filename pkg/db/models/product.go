package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

// Product is a menu entry sold at the counter or at the table.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null;default:''"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL    *string               `gorm:"column:image_url"`
	Available   bool                  `gorm:"column:available;not null"`

	PromotionDiscountPercent *decimal.Decimal `gorm:"column:promotion_discount_percent;type:numeric(5,2)"`
	PromotionStartDate       *time.Time       `gorm:"column:promotion_start_date"`
	PromotionEndDate         *time.Time       `gorm:"column:promotion_end_date"`
	PromotionActive          bool             `gorm:"column:promotion_active;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
