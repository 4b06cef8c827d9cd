package loyalty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

// Service manages loyalty cards and the points ledger.
type Service interface {
	CreateCard(ctx context.Context, input CreateCardInput) (*CardDTO, error)
	GetCard(ctx context.Context, id uuid.UUID) (*CardDTO, error)
	FindByPhone(ctx context.Context, phone string) (*CardDTO, error)
	List(ctx context.Context) ([]CardDTO, error)
	UpdateCard(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardDTO, error)
	DeleteCard(ctx context.Context, id uuid.UUID) error
	AddPoints(ctx context.Context, id uuid.UUID, input AddPointsInput) (*CardDTO, error)
	RedeemPoints(ctx context.Context, id uuid.UUID, input RedeemPointsInput) (*CardDTO, error)
	Transactions(ctx context.Context, id uuid.UUID) ([]TransactionDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(repo Repository, tx txRunner, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, now: now}, nil
}

func (s *service) CreateCard(ctx context.Context, input CreateCardInput) (*CardDTO, error) {
	card := &models.LoyaltyCard{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Phone:        normalizePhone(input.Phone),
		Email:        trimmedOrNil(input.Email),
		Points:       0,
		Tier:         enums.LoyaltyTierBronze,
		TotalSpent:   decimal.Zero,
	}
	if err := validateContact(card); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now
	card.LastVisitAt = &now

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, mapWriteError(err, "create loyalty card")
	}
	dto := NewCardDTO(*card)
	return &dto, nil
}

func (s *service) GetCard(ctx context.Context, id uuid.UUID) (*CardDTO, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	dto := NewCardDTO(*card)
	return &dto, nil
}

func (s *service) FindByPhone(ctx context.Context, phone string) (*CardDTO, error) {
	normalized := normalizePhone(phone)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	card, err := s.repo.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, mapLoadError(err)
	}
	dto := NewCardDTO(*card)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]CardDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list loyalty cards")
	}
	out := make([]CardDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCardDTO(row))
	}
	return out, nil
}

func (s *service) UpdateCard(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardDTO, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	if input.CustomerName != nil {
		card.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.Phone != nil {
		card.Phone = normalizePhone(*input.Phone)
	}
	if input.Email != nil {
		card.Email = trimmedOrNil(input.Email)
	}
	if err := validateContact(card); err != nil {
		return nil, err
	}
	card.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, card); err != nil {
		return nil, mapWriteError(err, "update loyalty card")
	}
	dto := NewCardDTO(*card)
	return &dto, nil
}

func (s *service) DeleteCard(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return mapLoadError(err)
	}
	return nil
}

// AddPoints credits floor(amount) points, adds amount to lifetime spend and
// recomputes the tier.
func (s *service) AddPoints(ctx context.Context, id uuid.UUID, input AddPointsInput) (*CardDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than 0")
	}
	amount := input.Amount.Round(2)
	earned := PointsFor(amount)

	return s.mutate(ctx, id, func(card *models.LoyaltyCard, now time.Time) *models.LoyaltyTransaction {
		card.Points += earned
		card.TotalSpent = card.TotalSpent.Add(amount)
		card.Tier = TierFor(card.TotalSpent)
		card.LastVisitAt = &now
		return &models.LoyaltyTransaction{
			Type:        enums.LoyaltyTransactionTypeEarn,
			Points:      earned,
			Amount:      amount,
			OrderID:     input.OrderID,
			Description: "purchase",
		}
	})
}

// RedeemPoints deducts points without ever going below zero. The ledger
// records the points actually removed.
func (s *service) RedeemPoints(ctx context.Context, id uuid.UUID, input RedeemPointsInput) (*CardDTO, error) {
	if input.Points < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points must be at least 1")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = "redemption"
	}

	return s.mutate(ctx, id, func(card *models.LoyaltyCard, now time.Time) *models.LoyaltyTransaction {
		deducted := min(input.Points, card.Points)
		card.Points -= deducted
		card.LastVisitAt = &now
		return &models.LoyaltyTransaction{
			Type:        enums.LoyaltyTransactionTypeRedeem,
			Points:      deducted,
			Amount:      decimal.Zero,
			Description: description,
		}
	})
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, apply func(card *models.LoyaltyCard, now time.Time) *models.LoyaltyTransaction) (*CardDTO, error) {
	now := s.now().UTC()
	var updated *models.LoyaltyCard
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		card, err := repo.LockByID(ctx, id)
		if err != nil {
			return mapLoadError(err)
		}
		txn := apply(card, now)
		card.UpdatedAt = now
		if err := repo.Save(ctx, card); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update loyalty card")
		}
		txn.CardID = card.ID
		txn.CreatedAt = now
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record loyalty transaction")
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := NewCardDTO(*updated)
	return &dto, nil
}

func (s *service) Transactions(ctx context.Context, id uuid.UUID) ([]TransactionDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLoadError(err)
	}
	rows, err := s.repo.ListTransactions(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list loyalty transactions")
	}
	out := make([]TransactionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewTransactionDTO(row))
	}
	return out, nil
}

func validateContact(card *models.LoyaltyCard) error {
	if card.CustomerName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customerName is required")
	}
	if card.Phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	return nil
}

// normalizePhone drops spaces, dots and dashes so lookups match however the
// number was typed at the counter.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

func mapWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func mapLoadError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "loyalty card not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty card")
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
