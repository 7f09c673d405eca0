package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OpenCashRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseCashRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"min=0"`
}

type CashSessionResponse struct {
	ID              uint             `json:"id"`
	Status          string           `json:"status"`
	OpenedAt        time.Time        `json:"opened_at"`
	OpenedBy        string           `json:"opened_by"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	ClosedAt        *time.Time       `json:"closed_at"`
	ClosedBy        *string          `json:"closed_by"`
	ClosingBalance  *decimal.Decimal `json:"closing_balance"`
	ExpectedBalance *decimal.Decimal `json:"expected_balance"`
	Difference      *decimal.Decimal `json:"difference"`
	// Scope is the reconciliation scope used to compute ExpectedBalance.
	Scope string `json:"scope,omitempty"`
}

type CashSessionListResponse struct {
	Data  []CashSessionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
