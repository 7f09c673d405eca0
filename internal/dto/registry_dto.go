package dto

// ─── Clients ─────────────────────────────────────────────────────────────────

type ClientRequest struct {
	Name  string  `json:"name"   validate:"required,min=2,max=120"`
	TaxID string  `json:"tax_id" validate:"omitempty,max=20"`
	Phone string  `json:"phone"  validate:"omitempty,max=30"`
	Email *string `json:"email"  validate:"omitempty,email"`
}

type ClientResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	TaxID    string            `json:"tax_id"`
	Phone    string            `json:"phone"`
	Email    *string           `json:"email"`
	Vehicles []VehicleResponse `json:"vehicles,omitempty"`
}

// ─── Vehicles ────────────────────────────────────────────────────────────────

type VehicleRequest struct {
	ClientID uint   `json:"client_id" validate:"required"`
	Plate    string `json:"plate"     validate:"required,min=7,max=8"`
	Model    string `json:"model"     validate:"required"`
	Brand    string `json:"brand"     validate:"required"`
}

type VehicleResponse struct {
	ID       uint   `json:"id"`
	ClientID uint   `json:"client_id"`
	Plate    string `json:"plate"`
	Model    string `json:"model"`
	Brand    string `json:"brand"`
}

// ─── Employees ───────────────────────────────────────────────────────────────

type CreateEmployeeRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Role string `json:"role" validate:"required,oneof=mechanic washer cashier manager admin"`
	PIN  string `json:"pin"  validate:"required,min=4,max=12,numeric"`
}

type UpdateEmployeeRequest struct {
	Name   string `json:"name"   validate:"omitempty,min=2,max=100"`
	Role   string `json:"role"   validate:"omitempty,oneof=mechanic washer cashier manager admin"`
	PIN    string `json:"pin"    validate:"omitempty,min=4,max=12,numeric"`
	Active *bool  `json:"active"`
}
