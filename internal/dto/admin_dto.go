package dto

import (
	"encoding/json"
	"time"
)

type SystemLogResponse struct {
	ID        uint            `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	User      string          `json:"user"`
	Action    string          `json:"action"`
	Details   string          `json:"details"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

type SystemLogListResponse struct {
	Data  []SystemLogResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type SettingsRequest struct {
	CompanyName     *string `json:"company_name"     validate:"omitempty,min=2,max=120"`
	ThemeColor      *string `json:"theme_color"      validate:"omitempty,hexcolor"`
	MaintenanceMode *bool   `json:"maintenance_mode"`
}

type SettingsResponse struct {
	CompanyName     string `json:"company_name"`
	ThemeColor      string `json:"theme_color"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}
