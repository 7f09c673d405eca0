package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	Description   string          `json:"description"    validate:"required,min=2"`
	Type          string          `json:"type"           validate:"required,oneof=income expense"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Category      string          `json:"category"       validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=pix credit debit cash boleto insurance"`
	// Date defaults to now.
	Date          *time.Time `json:"date"`
	ReferenceID   *uint      `json:"reference_id"`
	ReferenceType *string    `json:"reference_type" validate:"omitempty,oneof=OS WASH"`
}

type TransactionFilter struct {
	Type  string `form:"type"`
	From  string `form:"from"` // YYYY-MM-DD
	To    string `form:"to"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type TransactionResponse struct {
	ID            uint            `json:"id"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	ReferenceID   *uint           `json:"reference_id"`
	ReferenceType *string         `json:"reference_type"`
	SessionID     *uint           `json:"session_id"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type FinanceSummaryResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
