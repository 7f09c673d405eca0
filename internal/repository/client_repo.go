package repository

import (
	"context"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uint) (*model.Client, error)
	List(ctx context.Context, search string) ([]model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id uint) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uint) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Preload("Vehicles").First(&c, id).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context, search string) ([]model.Client, error) {
	var out []model.Client
	q := r.db.WithContext(ctx).Preload("Vehicles").Order("name ASC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR tax_id ILIKE ?", like, like)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Omit("Vehicles").Save(c).Error
}

func (r *clientRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	FindByID(ctx context.Context, id uint) (*model.Vehicle, error)
	List(ctx context.Context, clientID uint) ([]model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id uint) error
}

type vehicleRepo struct{ db *gorm.DB }

func NewVehicleRepository(db *gorm.DB) VehicleRepository { return &vehicleRepo{db: db} }

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleRepo) FindByID(ctx context.Context, id uint) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

// List returns every vehicle, or only those of clientID when it is non-zero.
func (r *vehicleRepo) List(ctx context.Context, clientID uint) ([]model.Vehicle, error) {
	var out []model.Vehicle
	q := r.db.WithContext(ctx).Order("plate ASC")
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vehicleRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Vehicle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
