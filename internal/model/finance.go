package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TxIncome  = "income"
	TxExpense = "expense"

	RefOrder = "OS"
	RefWash  = "WASH"

	SessionOpen   = "open"
	SessionClosed = "closed"
)

// PaymentMethods accepted on ledger entries.
var PaymentMethods = []string{"pix", "credit", "debit", "cash", "boleto", "insurance"}

// Transaction is an append-only ledger entry. Amount is always positive;
// Type carries the sign.
type Transaction struct {
	ID            uint            `gorm:"primaryKey"`
	Description   string          `gorm:"not null"`
	Type          string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category      string          `gorm:"not null"`
	Date          time.Time       `gorm:"not null;index"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	ReferenceID   *uint
	ReferenceType *string `gorm:"type:varchar(10)"`
	// SessionID is the cash session that was open when the entry was recorded.
	SessionID *uint `gorm:"index"`
	CreatedAt time.Time
}

// Signed returns Amount for income and -Amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CashSession is one open/close cycle of the register. At most one row is
// in status open at any time (partial unique index).
type CashSession struct {
	ID              uint            `gorm:"primaryKey"`
	Status          string          `gorm:"type:varchar(10);not null;default:'open'"`
	OpenedAt        time.Time       `gorm:"not null"`
	OpenedBy        string          `gorm:"not null"`
	OpeningBalance  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClosedAt        *time.Time
	ClosedBy        *string
	ClosingBalance  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference      *decimal.Decimal `gorm:"type:decimal(12,2)"`
}
