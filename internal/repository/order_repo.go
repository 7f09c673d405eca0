package repository

import (
	"context"
	"fmt"

	"christocar/internal/dto"
	"christocar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create inserts the order with its lines and assigns Number from the new ID.
	Create(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error
	FindByID(ctx context.Context, id uint) (*model.ServiceOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error)
	// Replace overwrites the header and swaps both line lists wholesale.
	Replace(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error {
	db := conn(r.db, tx).WithContext(ctx)
	// number is unique; hold a throwaway value until the ID exists
	o.Number = "tmp-" + uuid.NewString()
	if err := db.Create(o).Error; err != nil {
		return err
	}
	o.Number = model.OrderNumber(o.Date.Year(), o.ID)
	return db.Model(o).Update("number", o.Number).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	var orders []model.ServiceOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ServiceOrder{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != 0 {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("id DESC")
	// Limit 0 means "everything"; the dashboard relies on it.
	if filter.Limit > 0 {
		offset, size := paginate(filter.Page, filter.Limit)
		q = q.Offset(offset).Limit(size)
	}
	err := q.Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Replace(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error {
	db := conn(r.db, tx).WithContext(ctx)

	res := db.Model(&model.ServiceOrder{}).Where("id = ?", o.ID).Updates(map[string]any{
		"client_id":    o.ClientID,
		"vehicle_id":   o.VehicleID,
		"status":       o.Status,
		"total":        o.Total,
		"observations": o.Observations,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := db.Where("order_id = ?", o.ID).Delete(&model.ServiceLine{}).Error; err != nil {
		return fmt.Errorf("clear service lines: %w", err)
	}
	if err := db.Where("order_id = ?", o.ID).Delete(&model.PartLine{}).Error; err != nil {
		return fmt.Errorf("clear part lines: %w", err)
	}
	for i := range o.Services {
		o.Services[i].ID = 0
		o.Services[i].OrderID = o.ID
	}
	for i := range o.Parts {
		o.Parts[i].ID = 0
		o.Parts[i].OrderID = o.ID
	}
	if len(o.Services) > 0 {
		if err := db.Create(&o.Services).Error; err != nil {
			return fmt.Errorf("insert service lines: %w", err)
		}
	}
	if len(o.Parts) > 0 {
		if err := db.Create(&o.Parts).Error; err != nil {
			return fmt.Errorf("insert part lines: %w", err)
		}
	}
	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&model.ServiceOrder{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
