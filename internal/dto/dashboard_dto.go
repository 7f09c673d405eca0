package dto

import "github.com/shopspring/decimal"

const (
	ScopeUnscoped = "unscoped"
	ScopeCalendar = "calendar"
)

type DashboardStats struct {
	Scope           string          `json:"scope"`
	DailyRevenue    decimal.Decimal `json:"daily_revenue"`
	ActiveOS        int             `json:"active_os"`
	CompletedWashes int             `json:"completed_washes"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
}
