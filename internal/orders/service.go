package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/internal/events"
	"github.com/poiu748/cafe-alya/internal/products"
	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
	"github.com/poiu748/cafe-alya/pkg/pagination"
)

// Service exposes order intake and lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput, actor *events.ActorRef) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, actor *events.ActorRef) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productPricer interface {
	PriceLookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]products.PricedProduct, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies of the orders service.
type ServiceParams struct {
	Repo      Repository
	Products  productPricer
	Tx        txRunner
	Sequencer Sequencer
	Publisher events.Publisher
	Logger    *logger.Logger
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	repo      Repository
	products  productPricer
	tx        txRunner
	sequencer Sequencer
	publisher events.Publisher
	logg      *logger.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewService validates params and builds an orders service. Sequencer may be
// nil, in which case order numbers always use the random fallback.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product pricer is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Publisher == nil {
		return nil, fmt.Errorf("event publisher is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		products:  params.Products,
		tx:        params.Tx,
		sequencer: params.Sequencer,
		publisher: params.Publisher,
		logg:      params.Logger,
		loc:       loc,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput, actor *events.ActorRef) (*OrderDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	priced, err := s.products.PriceLookup(ctx, productIDs(input.Items))
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	lines := make([]decimal.Decimal, 0, len(input.Items))
	for i, line := range input.Items {
		product, ok := priced[line.ProductID]
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "product %s not found", line.ProductID)
		}
		if !product.Available {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "product %q is not available", product.Name)
		}
		subtotal := LineSubtotal(product.UnitPrice, line.Quantity)
		lines = append(lines, subtotal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.UnitPrice,
			Subtotal:    subtotal,
			Position:    i,
		})
	}
	totals := ComputeTotals(lines)

	now := s.now().In(s.loc)
	number, seqErr := nextOrderNumber(ctx, s.sequencer, now)
	if seqErr != nil {
		warnCtx := s.logg.WithField(ctx, "error", seqErr.Error())
		s.logg.Warn(warnCtx, "orders.sequence_fallback")
	}

	order := &models.Order{
		OrderNumber:  number,
		Type:         input.Type,
		CustomerName: trimmedOrNil(input.CustomerName),
		Notes:        trimmedOrNil(input.Notes),
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
		Status:       enums.OrderStatusPending,
		Items:        items,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if input.Type == enums.OrderTypeDineIn {
		order.TableNumber = input.TableNumber
	}
	if actor != nil {
		id := actor.UserID
		order.CreatedBy = &id
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.emit(ctx, events.Event{
		Type:        events.OrderCreated,
		AggregateID: order.ID,
		Actor:       actor,
		OccurredAt:  now,
		Data: createdPayload{
			OrderNumber: order.OrderNumber,
			Type:        order.Type.String(),
			Total:       order.Total,
			ItemCount:   len(order.Items),
		},
	})

	dto := NewOrderDTO(*order)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	dto := NewOrderDTO(*order)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*OrderList, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid type filter")
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := pagination.BuildPage(rows, params.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})

	items := make([]OrderDTO, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, NewOrderDTO(row))
	}
	return &OrderList{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, actor *events.ActorRef) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	now := s.now()
	var previous enums.OrderStatus
	var number string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.LockByID(ctx, id)
		if err != nil {
			return mapLoadError(err)
		}
		if !CanTransition(current.Status, status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", current.Status, status).
				WithDetails(map[string]any{
					"from":    current.Status,
					"to":      status,
					"allowed": NextStatuses(current.Status),
				})
		}
		previous = current.Status
		number = current.OrderNumber
		if err := repo.UpdateStatus(ctx, id, status, now.UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.Event{
		Type:        events.OrderStatusChanged,
		AggregateID: id,
		Actor:       actor,
		OccurredAt:  now,
		Data: statusChangedPayload{
			OrderNumber: number,
			From:        previous.String(),
			To:          status.String(),
		},
	})

	return s.Get(ctx, id)
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

func (s *service) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"event_type":   event.Type,
			"aggregate_id": event.AggregateID.String(),
			"error":        err.Error(),
		})
		s.logg.Warn(warnCtx, "orders.publish_failed")
	}
}

func validateCreate(input CreateOrderInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "type must be dine-in or takeaway")
	}
	if input.Type == enums.OrderTypeDineIn && (input.TableNumber == nil || *input.TableNumber < 1) {
		return pkgerrors.New(pkgerrors.CodeValidation, "dine-in orders require a table number")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}
	return nil
}

func productIDs(items []CreateItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func mapLoadError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
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
