package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoicePending    = "pending"
	InvoiceAuthorized = "authorized"
	InvoiceCanceled   = "canceled"
	InvoiceError      = "error"
)

// Invoice is the electronic invoice (NF-e) issued for a finished order.
// ServiceOrderID is unique: one invoice per order.
type Invoice struct {
	ID             uint            `gorm:"primaryKey"`
	ServiceOrderID uint            `gorm:"uniqueIndex;not null"`
	ClientName     string          `gorm:"not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null"`
	AccessKey      string          `gorm:"type:varchar(44);not null"`
	IssuedAt       time.Time       `gorm:"not null"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath   *string `gorm:"column:pdf_path"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
