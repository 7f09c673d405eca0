package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ServiceLineRequest struct {
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Quantity    int             `json:"quantity"    validate:"required,min=1"`
	Mechanic    *string         `json:"mechanic"`
	Status      string          `json:"status"      validate:"omitempty,oneof=pending done"`
}

type PartLineRequest struct {
	// PartID copies code/name/price from the inventory when set.
	PartID   *uint           `json:"part_id"`
	Code     string          `json:"code"     validate:"required_without=PartID"`
	Name     string          `json:"name"     validate:"required_without=PartID"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	ClientID     uint   `json:"client_id"  validate:"required"`
	VehicleID    uint   `json:"vehicle_id" validate:"required"`
	Observations string `json:"observations"`
}

// SaveOrderRequest replaces every editable field of an order in one shot.
type SaveOrderRequest struct {
	ClientID     uint                 `json:"client_id"  validate:"required"`
	VehicleID    uint                 `json:"vehicle_id" validate:"required"`
	Status       string               `json:"status"     validate:"required,oneof=analysis in_progress finished delivered canceled"`
	Observations string               `json:"observations"`
	Services     []ServiceLineRequest `json:"services"   validate:"dive"`
	Parts        []PartLineRequest    `json:"parts"      validate:"dive"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=analysis in_progress finished delivered canceled"`
}

type OrderFilter struct {
	Status    string `form:"status"`
	ClientID  uint   `form:"client_id"`
	VehicleID uint   `form:"vehicle_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// Price-bearing fields are pointers so they drop out of the JSON for roles
// that must not see money.
type ServiceLineResponse struct {
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    int              `json:"quantity"`
	Mechanic    *string          `json:"mechanic"`
	Status      string           `json:"status"`
}

type PartLineResponse struct {
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity int              `json:"quantity"`
}

type OrderResponse struct {
	ID           uint                  `json:"id"`
	Number       string                `json:"number"`
	ClientID     uint                  `json:"client_id"`
	VehicleID    uint                  `json:"vehicle_id"`
	Date         time.Time             `json:"date"`
	Status       string                `json:"status"`
	Services     []ServiceLineResponse `json:"services"`
	Parts        []PartLineResponse    `json:"parts"`
	Total        *decimal.Decimal      `json:"total,omitempty"`
	Observations string                `json:"observations"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// RedactOrder strips every money field for roles that must not see prices.
func RedactOrder(r *OrderResponse) {
	r.Total = nil
	for i := range r.Services {
		r.Services[i].Price = nil
	}
	for i := range r.Parts {
		r.Parts[i].Price = nil
	}
}
