package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	ActionLogin           = "LOGIN"
	ActionOrderSaved      = "ORDER_SAVED"
	ActionCashOpen        = "CASH_OPEN"
	ActionCashClose       = "CASH_CLOSE"
	ActionWashFinalized   = "WASH_FINALIZED"
	ActionInvoiceEmitted  = "INVOICE_EMITTED"
	ActionSettingsUpdated = "SETTINGS_UPDATED"
)

// SystemLog is an append-only audit entry.
type SystemLog struct {
	ID        uint           `gorm:"primaryKey"`
	Timestamp time.Time      `gorm:"not null;index"`
	User      string         `gorm:"column:user_name;not null"`
	Action    string         `gorm:"type:varchar(40);not null"`
	Details   string         `gorm:"not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
}

// AppSettings is a single-row table (ID is always 1).
type AppSettings struct {
	ID              uint   `gorm:"primaryKey"`
	CompanyName     string `gorm:"not null"`
	ThemeColor      string `gorm:"type:varchar(20);not null"`
	MaintenanceMode bool   `gorm:"not null;default:false"`
	UpdatedAt       time.Time
}

func (AppSettings) TableName() string { return "app_settings" }
