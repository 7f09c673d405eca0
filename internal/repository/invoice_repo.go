package repository

import (
	"context"

	"christocar/internal/model"

	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uint) (*model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uint) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	UpdatePDFPath(ctx context.Context, id uint, path string) error
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return conn(r.db, tx).WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByOrderID(ctx context.Context, orderID uint) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("service_order_id = ?", orderID).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	err := r.db.WithContext(ctx).Order("issued_at DESC").Find(&out).Error
	return out, err
}

func (r *invoiceRepo) UpdatePDFPath(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Update("pdf_path", path).Error
}
