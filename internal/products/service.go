package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

// Service exposes catalogue management and the public menu.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Menu(ctx context.Context) ([]MenuSection, error)
	PriceLookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]PricedProduct, error)
}

// PricedProduct is what order intake needs to know about a product.
type PricedProduct struct {
	ID        uuid.UUID
	Name      string
	Available bool
	UnitPrice decimal.Decimal
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a products service. A nil clock defaults to time.Now.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Price:       input.Price.Round(2),
		ImageURL:    trimmedOrNil(input.ImageURL),
		Available:   true,
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	if input.Promotion != nil {
		if err := applyPromotion(product, *input.Promotion); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := NewProductDTO(*product, s.now())
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(*product, s.now())
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := NewProductDTO(*product, s.now())
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	now := s.now()
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewProductDTO(row, now))
	}
	return out, nil
}

// Menu lists available products grouped by category, in catalogue order.
func (s *service) Menu(ctx context.Context) ([]MenuSection, error) {
	products, err := s.List(ctx, ListFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	sections := []MenuSection{}
	index := map[string]int{}
	for _, p := range products {
		pos, ok := index[p.Category]
		if !ok {
			pos = len(sections)
			index[p.Category] = pos
			sections = append(sections, MenuSection{Category: p.Category})
		}
		sections[pos].Products = append(sections[pos].Products, p)
	}
	return sections, nil
}

func (s *service) PriceLookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]PricedProduct, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	now := s.now()
	out := make(map[uuid.UUID]PricedProduct, len(rows))
	for _, row := range rows {
		out[row.ID] = PricedProduct{
			ID:        row.ID,
			Name:      row.Name,
			Available: row.Available,
			UnitPrice: EffectivePrice(row, now),
		}
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		product.Category = *input.Category
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return err
		}
		product.Price = input.Price.Round(2)
	}
	if input.ImageURL != nil {
		product.ImageURL = trimmedOrNil(input.ImageURL)
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	switch {
	case input.ClearPromotion:
		product.PromotionDiscountPercent = nil
		product.PromotionStartDate = nil
		product.PromotionEndDate = nil
		product.PromotionActive = false
	case input.Promotion != nil:
		return applyPromotion(product, *input.Promotion)
	}
	return nil
}

func applyPromotion(product *models.Product, promo PromotionInput) error {
	if promo.DiscountPercent.IsNegative() || promo.DiscountPercent.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountPercent must be between 0 and 100")
	}
	if promo.StartDate != nil && promo.EndDate != nil && promo.EndDate.Before(*promo.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "endDate must not be before startDate")
	}
	pct := promo.DiscountPercent.Round(2)
	product.PromotionDiscountPercent = &pct
	product.PromotionStartDate = promo.StartDate
	product.PromotionEndDate = promo.EndDate
	product.PromotionActive = promo.Active
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
