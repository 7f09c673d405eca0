package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type WashServiceRequest struct {
	Name  string          `json:"name"  validate:"required,min=2"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
}

type WashServiceResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CreateWashRecordRequest struct {
	Plate         string `json:"plate"           validate:"required,min=7,max=8"`
	VehicleModel  string `json:"vehicle_model"   validate:"required"`
	ServiceTypeID uint   `json:"service_type_id" validate:"required"`
	// EmployeeID defaults to the caller.
	EmployeeID *uint `json:"employee_id"`
}

type CompleteWashRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=pix credit debit cash boleto insurance"`
}

type WashRecordResponse struct {
	ID            uint             `json:"id"`
	Plate         string           `json:"plate"`
	VehicleModel  string           `json:"vehicle_model"`
	ServiceTypeID uint             `json:"service_type_id"`
	ServiceName   string           `json:"service_name"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	EmployeeID    uint             `json:"employee_id"`
	EmployeeName  string           `json:"employee_name"`
	Date          time.Time        `json:"date"`
	Finalized     bool             `json:"finalized"`
	FinalizedAt   *time.Time       `json:"finalized_at"`
}
