package model

import "time"

// Client is a workshop customer.
type Client struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"not null"`
	TaxID     string  `gorm:"type:varchar(20);column:tax_id"` // CPF or CNPJ
	Phone     string  `gorm:"type:varchar(30)"`
	Email     *string `gorm:"type:varchar(120)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehicles []Vehicle `gorm:"foreignKey:ClientID"`
}

// Vehicle belongs to exactly one client.
type Vehicle struct {
	ID        uint   `gorm:"primaryKey"`
	ClientID  uint   `gorm:"not null;index"`
	Plate     string `gorm:"type:varchar(10);not null"`
	Model     string `gorm:"not null"`
	Brand     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
