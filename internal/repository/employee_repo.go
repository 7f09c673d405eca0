package repository

import (
	"context"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	List(ctx context.Context, includeInactive bool) ([]model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	// Deactivate keeps the row: wash records and order lines still name the employee.
	Deactivate(ctx context.Context, id uint) error
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *employeeRepo) List(ctx context.Context, includeInactive bool) ([]model.Employee, error) {
	var out []model.Employee
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Employee{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
