package repository

import (
	"context"
	"time"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type WashServiceRepository interface {
	Create(ctx context.Context, s *model.WashService) error
	FindByID(ctx context.Context, id uint) (*model.WashService, error)
	List(ctx context.Context) ([]model.WashService, error)
	Update(ctx context.Context, s *model.WashService) error
	Delete(ctx context.Context, id uint) error
}

type washServiceRepo struct{ db *gorm.DB }

func NewWashServiceRepository(db *gorm.DB) WashServiceRepository { return &washServiceRepo{db: db} }

func (r *washServiceRepo) Create(ctx context.Context, s *model.WashService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *washServiceRepo) FindByID(ctx context.Context, id uint) (*model.WashService, error) {
	var s model.WashService
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *washServiceRepo) List(ctx context.Context) ([]model.WashService, error) {
	var out []model.WashService
	err := r.db.WithContext(ctx).Order("price ASC").Find(&out).Error
	return out, err
}

func (r *washServiceRepo) Update(ctx context.Context, s *model.WashService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *washServiceRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.WashService{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type WashRecordRepository interface {
	Create(ctx context.Context, w *model.WashRecord) error
	FindByID(ctx context.Context, id uint) (*model.WashRecord, error)
	List(ctx context.Context) ([]model.WashRecord, error)
	// MarkFinalized flips finalized false→true and reports whether this call
	// did the flip. A false result means another request got there first.
	MarkFinalized(ctx context.Context, tx *gorm.DB, id uint, at time.Time) (bool, error)
	DB() *gorm.DB
}

type washRecordRepo struct{ db *gorm.DB }

func NewWashRecordRepository(db *gorm.DB) WashRecordRepository { return &washRecordRepo{db: db} }

func (r *washRecordRepo) DB() *gorm.DB { return r.db }

func (r *washRecordRepo) Create(ctx context.Context, w *model.WashRecord) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *washRecordRepo) FindByID(ctx context.Context, id uint) (*model.WashRecord, error) {
	var w model.WashRecord
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *washRecordRepo) List(ctx context.Context) ([]model.WashRecord, error) {
	var out []model.WashRecord
	err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *washRecordRepo) MarkFinalized(ctx context.Context, tx *gorm.DB, id uint, at time.Time) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).Model(&model.WashRecord{}).
		Where("id = ? AND finalized = false", id).
		Updates(map[string]any{"finalized": true, "finalized_at": at})
	return res.RowsAffected == 1, res.Error
}
