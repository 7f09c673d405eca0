package repository

import (
	"context"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type PartRepository interface {
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, id uint) (*model.Part, error)
	FindByCode(ctx context.Context, code string) (*model.Part, error)
	List(ctx context.Context, search string) ([]model.Part, error)
	Update(ctx context.Context, p *model.Part) error
	Delete(ctx context.Context, id uint) error
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id uint) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *partRepo) FindByCode(ctx context.Context, code string) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	return &p, err
}

func (r *partRepo) List(ctx context.Context, search string) ([]model.Part, error) {
	var out []model.Part
	q := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *partRepo) Update(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *partRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Part{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
