package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
)

// CreateCardInput opens a loyalty card for a customer.
type CreateCardInput struct {
	CustomerName string  `json:"customerName" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateCardInput edits contact details only. Points and tier move through
// AddPoints and RedeemPoints.
type UpdateCardInput struct {
	CustomerName *string `json:"customerName,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
}

type AddPointsInput struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID *uuid.UUID      `json:"orderId,omitempty"`
}

type RedeemPointsInput struct {
	Points      int    `json:"points" validate:"required,min=1"`
	Description string `json:"description"`
}

type CardDTO struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone"`
	Email        *string         `json:"email,omitempty"`
	Points       int             `json:"points"`
	Tier         string          `json:"tier"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	LastVisitAt  *time.Time      `json:"lastVisitAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type TransactionDTO struct {
	ID          uuid.UUID       `json:"id"`
	CardID      uuid.UUID       `json:"cardId"`
	Type        string          `json:"type"`
	Points      int             `json:"points"`
	Amount      decimal.Decimal `json:"amount"`
	OrderID     *uuid.UUID      `json:"orderId,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewCardDTO(c models.LoyaltyCard) CardDTO {
	return CardDTO{
		ID:           c.ID,
		CustomerName: c.CustomerName,
		Phone:        c.Phone,
		Email:        c.Email,
		Points:       c.Points,
		Tier:         c.Tier.String(),
		TotalSpent:   c.TotalSpent,
		LastVisitAt:  c.LastVisitAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewTransactionDTO(t models.LoyaltyTransaction) TransactionDTO {
	return TransactionDTO{
		ID:          t.ID,
		CardID:      t.CardID,
		Type:        t.Type.String(),
		Points:      t.Points,
		Amount:      t.Amount,
		OrderID:     t.OrderID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
