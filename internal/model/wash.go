package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WashService is a catalog entry for the quick-wash bay.
type WashService struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WashRecord is a completed-or-pending wash. ServiceName, Value and the
// vehicle fields are snapshots taken at creation; later catalog edits do
// not reach back into existing records.
type WashRecord struct {
	ID            uint            `gorm:"primaryKey"`
	Plate         string          `gorm:"type:varchar(10);not null"`
	VehicleModel  string          `gorm:"not null"`
	ServiceTypeID uint            `gorm:"not null"`
	ServiceName   string          `gorm:"not null"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EmployeeID    uint            `gorm:"not null;index"`
	EmployeeName  string          `gorm:"not null"`
	Date          time.Time       `gorm:"not null"`
	Finalized     bool            `gorm:"not null;default:false"`
	FinalizedAt   *time.Time
	CreatedAt     time.Time
}
