package repository

import (
	"context"
	"time"

	"go-pos/internal/model"

	"gorm.io/gorm"
)

// TransactionFilter narrows FindAll. Zero values mean "no filter"; From is
// inclusive and To exclusive.
type TransactionFilter struct {
	Status model.TransactionStatus
	From   time.Time
	To     time.Time
}

type TransactionRepository interface {
	FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	FindItems(tx *gorm.DB, transactionID string) ([]model.TransactionItem, error)
	Create(tx *gorm.DB, t *model.Transaction) error
	CreateItem(tx *gorm.DB, item *model.TransactionItem) error
	MarkVoided(tx *gorm.DB, id string) (bool, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction

	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To.UTC())
	}

	err := q.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindItems(tx *gorm.DB, transactionID string) ([]model.TransactionItem, error) {
	var items []model.TransactionItem
	err := tx.Where("transaction_id = ?", transactionID).Order("id ASC").Find(&items).Error
	return items, err
}

// Create inserts the transaction row only; items are written one by one
// with CreateItem so each line can be paired with its stock update.
func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	return tx.Omit("Items").Create(t).Error
}

func (r *transactionRepo) CreateItem(tx *gorm.DB, item *model.TransactionItem) error {
	return tx.Create(item).Error
}

// MarkVoided flips a completed transaction to voided. It reports false when
// the row is missing or was already voided.
func (r *transactionRepo) MarkVoided(tx *gorm.DB, id string) (bool, error) {
	res := tx.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.StatusCompleted).
		Update("status", model.StatusVoided)
	return res.RowsAffected == 1, res.Error
}
