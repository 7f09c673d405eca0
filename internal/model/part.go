package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is a stock item. Quantity is informational; order lines do not consume it.
type Part struct {
	ID        uint            `gorm:"primaryKey"`
	Code      string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
