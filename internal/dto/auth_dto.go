package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	EmployeeID uint   `json:"employee_id" validate:"required"`
	PIN        string `json:"pin"         validate:"required,min=4,max=12"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type LoginResponse struct {
	AccessToken   string           `json:"access_token"`
	TokenType     string           `json:"token_type"`
	ExpiresIn     int              `json:"expires_in"` // seconds
	Employee      EmployeeResponse `json:"employee"`
	DefaultModule string           `json:"default_module"`
	Modules       []string         `json:"modules"`
}
