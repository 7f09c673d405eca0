package repository

import (
	"context"

	"christocar/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row lock strengths for LockOpen.
const (
	LockShare  = "SHARE"
	LockUpdate = "UPDATE"
)

type CashRepository interface {
	Create(ctx context.Context, s *model.CashSession) error
	// FindOpen returns gorm.ErrRecordNotFound when the register is closed.
	FindOpen(ctx context.Context) (*model.CashSession, error)
	// LockOpen is FindOpen inside tx with SELECT ... FOR <strength>. Ledger
	// writes take SHARE, closing takes UPDATE, so an entry can never be
	// stamped with a session that closed under it. A nil tx reads unlocked.
	LockOpen(ctx context.Context, tx *gorm.DB, strength string) (*model.CashSession, error)
	FindByID(ctx context.Context, id uint) (*model.CashSession, error)
	Update(ctx context.Context, tx *gorm.DB, s *model.CashSession) error
	List(ctx context.Context, page, limit int) ([]model.CashSession, int64, error)
	DB() *gorm.DB
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) DB() *gorm.DB { return r.db }

func (r *cashRepo) Create(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpen(ctx context.Context) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).Where("status = ?", model.SessionOpen).First(&s).Error
	return &s, err
}

func (r *cashRepo) LockOpen(ctx context.Context, tx *gorm.DB, strength string) (*model.CashSession, error) {
	if tx == nil {
		return r.FindOpen(ctx)
	}
	var s model.CashSession
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where("status = ?", model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *cashRepo) FindByID(ctx context.Context, id uint) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *cashRepo) Update(ctx context.Context, tx *gorm.DB, s *model.CashSession) error {
	return conn(r.db, tx).WithContext(ctx).Save(s).Error
}

func (r *cashRepo) List(ctx context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var out []model.CashSession
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CashSession{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, size := paginate(page, limit)
	err := q.Order("opened_at DESC").Offset(offset).Limit(size).Find(&out).Error
	return out, total, err
}
