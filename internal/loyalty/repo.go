package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
)

// Repository persists loyalty cards and their transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, card *models.LoyaltyCard) error
	Save(ctx context.Context, card *models.LoyaltyCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LoyaltyCard, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.LoyaltyCard, error)
	FindByPhone(ctx context.Context, phone string) (*models.LoyaltyCard, error)
	List(ctx context.Context) ([]models.LoyaltyCard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateTransaction(ctx context.Context, txn *models.LoyaltyTransaction) error
	ListTransactions(ctx context.Context, cardID uuid.UUID) ([]models.LoyaltyTransaction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, card *models.LoyaltyCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *repository) Save(ctx context.Context, card *models.LoyaltyCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := db.ForUpdate(r.db.WithContext(ctx)).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := r.db.WithContext(ctx).First(&card, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) List(ctx context.Context) ([]models.LoyaltyCard, error) {
	rows := []models.LoyaltyCard{}
	if err := r.db.WithContext(ctx).Order("customer_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.LoyaltyTransaction{}, "card_id = ?", id).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.LoyaltyCard{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.LoyaltyTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, cardID uuid.UUID) ([]models.LoyaltyTransaction, error) {
	rows := []models.LoyaltyTransaction{}
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
