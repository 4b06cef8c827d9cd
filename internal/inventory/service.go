package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
)

// Service manages stocked items and their movements.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput, actor *events.ActorRef) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]ItemDTO, error)
	AddStock(ctx context.Context, id uuid.UUID, input StockChangeInput, actor *events.ActorRef) (*ItemDTO, error)
	RemoveStock(ctx context.Context, id uuid.UUID, input StockChangeInput, actor *events.ActorRef) (*ItemDTO, error)
	Movements(ctx context.Context, id uuid.UUID) ([]MovementDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	tx        txRunner
	publisher events.Publisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds an inventory service. A nil clock defaults to time.Now.
func NewService(repo Repository, tx txRunner, publisher events.Publisher, logg *logger.Logger, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, publisher: publisher, logg: logg, now: now}, nil
}

// IsLowStock is the single definition of the low-stock flag.
func IsLowStock(current, min decimal.Decimal) bool {
	return current.LessThanOrEqual(min)
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if err := nonNegative("currentStock", input.CurrentStock); err != nil {
		return nil, err
	}
	if err := nonNegative("minStock", input.MinStock); err != nil {
		return nil, err
	}
	if err := nonNegative("unitCost", input.UnitCost); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &models.InventoryItem{
		Name:         name,
		Category:     trimmedOrNil(input.Category),
		CurrentStock: input.CurrentStock,
		MinStock:     input.MinStock,
		Unit:         unit,
		UnitCost:     input.UnitCost.Round(2),
		Supplier:     trimmedOrNil(input.Supplier),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item.LowStockAlert = IsLowStock(item.CurrentStock, item.MinStock)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	dto := NewItemDTO(*item)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	dto := NewItemDTO(*item)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput, actor *events.ActorRef) (*ItemDTO, error) {
	var updated *models.InventoryItem
	var crossed bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.LockByID(ctx, id)
		if err != nil {
			return mapLoadError(err)
		}
		wasLow := item.LowStockAlert
		if err := applyUpdate(item, input); err != nil {
			return err
		}
		item.LowStockAlert = IsLowStock(item.CurrentStock, item.MinStock)
		item.UpdatedAt = s.now().UTC()
		if err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		crossed = !wasLow && item.LowStockAlert
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	if crossed {
		s.publishLow(ctx, *updated, actor)
	}
	dto := NewItemDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return mapLoadError(err)
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewItemDTO(row))
	}
	return out, nil
}

func (s *service) AddStock(ctx context.Context, id uuid.UUID, input StockChangeInput, actor *events.ActorRef) (*ItemDTO, error) {
	return s.move(ctx, id, enums.StockMovementTypeIn, input, actor)
}

func (s *service) RemoveStock(ctx context.Context, id uuid.UUID, input StockChangeInput, actor *events.ActorRef) (*ItemDTO, error) {
	return s.move(ctx, id, enums.StockMovementTypeOut, input, actor)
}

// move applies a stock change and its movement record in one transaction.
// Removal clamps at zero and the movement records the requested quantity.
func (s *service) move(ctx context.Context, id uuid.UUID, kind enums.StockMovementType, input StockChangeInput, actor *events.ActorRef) (*ItemDTO, error) {
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than 0")
	}

	now := s.now().UTC()
	var updated *models.InventoryItem
	var crossed bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.LockByID(ctx, id)
		if err != nil {
			return mapLoadError(err)
		}
		wasLow := item.LowStockAlert

		switch kind {
		case enums.StockMovementTypeIn:
			item.CurrentStock = item.CurrentStock.Add(input.Quantity)
		default:
			item.CurrentStock = decimal.Max(item.CurrentStock.Sub(input.Quantity), decimal.Zero)
		}
		item.LowStockAlert = IsLowStock(item.CurrentStock, item.MinStock)
		item.UpdatedAt = now
		if err := repo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
		}

		movement := &models.StockMovement{
			InventoryItemID: item.ID,
			Type:            kind,
			Quantity:        input.Quantity,
			Reason:          strings.TrimSpace(input.Reason),
			CreatedAt:       now,
		}
		if actor != nil {
			userID := actor.UserID
			movement.CreatedBy = &userID
		}
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
		}

		crossed = !wasLow && item.LowStockAlert
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	if crossed {
		s.publishLow(ctx, *updated, actor)
	}
	dto := NewItemDTO(*updated)
	return &dto, nil
}

func (s *service) Movements(ctx context.Context, id uuid.UUID) ([]MovementDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLoadError(err)
	}
	rows, err := s.repo.ListMovements(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	out := make([]MovementDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewMovementDTO(row))
	}
	return out, nil
}

func (s *service) publishLow(ctx context.Context, item models.InventoryItem, actor *events.ActorRef) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:        events.StockLow,
		AggregateID: item.ID,
		Actor:       actor,
		OccurredAt:  s.now(),
		Data: StockLowPayload{
			Name:         item.Name,
			CurrentStock: item.CurrentStock,
			MinStock:     item.MinStock,
			Unit:         item.Unit,
		},
	})
	if err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"item_id": item.ID.String(),
			"error":   err.Error(),
		})
		s.logg.Warn(warnCtx, "inventory.publish_failed")
	}
}

func applyUpdate(item *models.InventoryItem, input UpdateItemInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		item.Name = name
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
		}
		item.Unit = unit
	}
	if input.Category != nil {
		item.Category = trimmedOrNil(input.Category)
	}
	if input.Supplier != nil {
		item.Supplier = trimmedOrNil(input.Supplier)
	}
	if input.CurrentStock != nil {
		if err := nonNegative("currentStock", *input.CurrentStock); err != nil {
			return err
		}
		item.CurrentStock = *input.CurrentStock
	}
	if input.MinStock != nil {
		if err := nonNegative("minStock", *input.MinStock); err != nil {
			return err
		}
		item.MinStock = *input.MinStock
	}
	if input.UnitCost != nil {
		if err := nonNegative("unitCost", *input.UnitCost); err != nil {
			return err
		}
		item.UnitCost = input.UnitCost.Round(2)
	}
	return nil
}

func nonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be non-negative", field)
	}
	return nil
}

func mapLoadError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
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
