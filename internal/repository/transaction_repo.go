package repository

import (
	"context"
	"time"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type TransactionFilter struct {
	Type  string
	From  *time.Time
	To    *time.Time
	Page  int
	Limit int // 0 = no pagination
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	// List is most-recent-first.
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error)
	// ListTx is List on the caller's transaction.
	ListTx(ctx context.Context, tx *gorm.DB, filter TransactionFilter) ([]model.Transaction, int64, error)
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	return conn(r.db, tx).WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, int64, error) {
	return r.ListTx(ctx, nil, filter)
}

func (r *transactionRepo) ListTx(ctx context.Context, tx *gorm.DB, filter TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	var total int64

	q := conn(r.db, tx).WithContext(ctx).Model(&model.Transaction{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date < ?", *filter.To)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("date DESC, id DESC")
	if filter.Limit > 0 {
		offset, size := paginate(filter.Page, filter.Limit)
		q = q.Offset(offset).Limit(size)
	}
	err := q.Find(&out).Error
	return out, total, err
}
