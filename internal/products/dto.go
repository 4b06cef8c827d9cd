package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
)

// PromotionInput describes a percentage discount over a date window.
type PromotionInput struct {
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       *time.Time      `json:"startDate,omitempty"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Active          bool            `json:"active"`
}

// CreateProductInput is the validated payload to create a product.
type CreateProductInput struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category" validate:"required"`
	Price       decimal.Decimal       `json:"price"`
	ImageURL    *string               `json:"imageUrl,omitempty"`
	Available   *bool                 `json:"available,omitempty"`
	Promotion   *PromotionInput       `json:"promotion,omitempty"`
}

// UpdateProductInput carries optional mutations. ClearPromotion removes any
// promotion and takes precedence over Promotion.
type UpdateProductInput struct {
	Name           *string                `json:"name,omitempty"`
	Description    *string                `json:"description,omitempty"`
	Category       *enums.ProductCategory `json:"category,omitempty"`
	Price          *decimal.Decimal       `json:"price,omitempty"`
	ImageURL       *string                `json:"imageUrl,omitempty"`
	Available      *bool                  `json:"available,omitempty"`
	Promotion      *PromotionInput        `json:"promotion,omitempty"`
	ClearPromotion bool                   `json:"clearPromotion,omitempty"`
}

// ListFilter narrows product listings.
type ListFilter struct {
	Category      *enums.ProductCategory
	AvailableOnly bool
}

// PromotionDTO is the promotion attached to a product.
type PromotionDTO struct {
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       *time.Time      `json:"startDate,omitempty"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Active          bool            `json:"active"`
}

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	ImageURL       *string         `json:"imageUrl,omitempty"`
	Available      bool            `json:"available"`
	Promotion      *PromotionDTO   `json:"promotion,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// MenuSection groups available products of one category.
type MenuSection struct {
	Category string       `json:"category"`
	Products []ProductDTO `json:"products"`
}

// NewProductDTO maps a product row, pricing it at now.
func NewProductDTO(p models.Product, now time.Time) ProductDTO {
	dto := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category.String(),
		Price:          p.Price,
		EffectivePrice: EffectivePrice(p, now),
		ImageURL:       p.ImageURL,
		Available:      p.Available,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.PromotionDiscountPercent != nil {
		dto.Promotion = &PromotionDTO{
			DiscountPercent: *p.PromotionDiscountPercent,
			StartDate:       p.PromotionStartDate,
			EndDate:         p.PromotionEndDate,
			Active:          p.PromotionActive,
		}
	}
	return dto
}
