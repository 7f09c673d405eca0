package repository

import (
	"context"
	"errors"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type SystemLogRepository interface {
	Create(ctx context.Context, l *model.SystemLog) error
	List(ctx context.Context, action string, page, limit int) ([]model.SystemLog, int64, error)
}

type systemLogRepo struct{ db *gorm.DB }

func NewSystemLogRepository(db *gorm.DB) SystemLogRepository { return &systemLogRepo{db: db} }

func (r *systemLogRepo) Create(ctx context.Context, l *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *systemLogRepo) List(ctx context.Context, action string, page, limit int) ([]model.SystemLog, int64, error) {
	var out []model.SystemLog
	var total int64
	q := r.db.WithContext(ctx).Model(&model.SystemLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, size := paginate(page, limit)
	err := q.Order("timestamp DESC, id DESC").Offset(offset).Limit(size).Find(&out).Error
	return out, total, err
}

type SettingsRepository interface {
	// Get returns the stored row, or defaults when none was ever saved.
	Get(ctx context.Context) (*model.AppSettings, error)
	Save(ctx context.Context, s *model.AppSettings) error
}

type settingsRepo struct {
	db       *gorm.DB
	defaults model.AppSettings
}

func NewSettingsRepository(db *gorm.DB, defaults model.AppSettings) SettingsRepository {
	return &settingsRepo{db: db, defaults: defaults}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.AppSettings, error) {
	var s model.AppSettings
	err := r.db.WithContext(ctx).First(&s, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := r.defaults
		d.ID = 1
		return &d, nil
	}
	return &s, err
}

func (r *settingsRepo) Save(ctx context.Context, s *model.AppSettings) error {
	s.ID = 1
	return r.db.WithContext(ctx).Save(s).Error
}
