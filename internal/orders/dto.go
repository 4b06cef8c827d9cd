package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
	"github.com/poiu748/cafe-alya/pkg/pagination"
)

// CreateItemInput is one requested order line.
type CreateItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderInput is the payload to place an order. Prices are never taken
// from the client.
type CreateOrderInput struct {
	Type         enums.OrderType   `json:"type" validate:"required"`
	TableNumber  *int              `json:"tableNumber,omitempty"`
	CustomerName *string           `json:"customerName,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Items        []CreateItemInput `json:"items" validate:"required,min=1,dive"`
}

// ListFilter narrows order listings. From is inclusive and To exclusive.
type ListFilter struct {
	Status *enums.OrderStatus
	Type   *enums.OrderType
	From   *time.Time
	To     *time.Time
}

// OrderItemDTO is an order line as returned to clients.
type OrderItemDTO struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	Type         string          `json:"type"`
	TableNumber  *int            `json:"tableNumber,omitempty"`
	CustomerName *string         `json:"customerName,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Items        []OrderItemDTO  `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedBy    *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// OrderList is one page of orders.
type OrderList = pagination.Page[OrderDTO]

// NewOrderDTO maps an order row and its preloaded items.
func NewOrderDTO(o models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return OrderDTO{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Type:         o.Type.String(),
		TableNumber:  o.TableNumber,
		CustomerName: o.CustomerName,
		Notes:        o.Notes,
		Items:        items,
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		Total:        o.Total,
		Status:       o.Status.String(),
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

type createdPayload struct {
	OrderNumber string          `json:"orderNumber"`
	Type        string          `json:"type"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"itemCount"`
}

type statusChangedPayload struct {
	OrderNumber string `json:"orderNumber"`
	From        string `json:"from"`
	To          string `json:"to"`
}
