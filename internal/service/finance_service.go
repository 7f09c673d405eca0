package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerGate is the single write path into the transactions table. Every
// entry, manual or produced by a wash/invoice, needs an open cash session
// and is stamped with its ID.
type ledgerGate struct {
	cash repository.CashRepository
	txs  repository.TransactionRepository
}

func (g ledgerGate) openSession(ctx context.Context) (*model.CashSession, error) {
	sess, err := g.cash.FindOpen(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return sess, nil
}

// record checks the gate and writes t inside tx. With a nil tx it opens
// its own so the session lock covers the insert.
func (g ledgerGate) record(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	if tx == nil {
		return runTx(ctx, g.cash.DB(), func(tx *gorm.DB) error {
			return g.write(ctx, tx, t)
		})
	}
	return g.write(ctx, tx, t)
}

func (g ledgerGate) write(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	sess, err := g.cash.LockOpen(ctx, tx, repository.LockShare)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoOpenSession
		}
		return err
	}
	t.SessionID = &sess.ID
	if err := g.txs.Create(ctx, tx, t); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

type FinanceService interface {
	RecordTransaction(ctx context.Context, actor Actor, req dto.TransactionRequest) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Summary(ctx context.Context) (*dto.FinanceSummaryResponse, error)
}

type financeService struct {
	gate ledgerGate
	txs  repository.TransactionRepository
	now  func() time.Time
}

func NewFinanceService(txs repository.TransactionRepository, cash repository.CashRepository) FinanceService {
	return &financeService{gate: ledgerGate{cash: cash, txs: txs}, txs: txs, now: time.Now}
}

func (s *financeService) RecordTransaction(ctx context.Context, actor Actor, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	if (req.ReferenceID == nil) != (req.ReferenceType == nil) {
		return nil, ErrInvalidReference
	}
	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}
	t := &model.Transaction{
		Description:   req.Description,
		Type:          req.Type,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
	}
	if err := s.gate.record(ctx, nil, t); err != nil {
		return nil, err
	}
	r := transactionToResponse(t)
	return &r, nil
}

func (s *financeService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	rf := repository.TransactionFilter{Type: filter.Type, Page: filter.Page, Limit: filter.Limit}
	if rf.Page < 1 {
		rf.Page = 1
	}
	if rf.Limit < 1 {
		rf.Limit = 50
	}
	if filter.From != "" {
		from, err := time.ParseInLocation("2006-01-02", filter.From, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: from", ErrInvalidReference)
		}
		rf.From = &from
	}
	if filter.To != "" {
		to, err := time.ParseInLocation("2006-01-02", filter.To, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: to", ErrInvalidReference)
		}
		to = to.AddDate(0, 0, 1)
		rf.To = &to
	}

	list, total, err := s.txs.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for i := range list {
		out = append(out, transactionToResponse(&list[i]))
	}
	return &dto.TransactionListResponse{Data: out, Total: total, Page: rf.Page, Limit: rf.Limit}, nil
}

// Summary is recomputed from the full ledger on every call.
func (s *financeService) Summary(ctx context.Context) (*dto.FinanceSummaryResponse, error) {
	list, _, err := s.txs.List(ctx, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	income, expense := sumLedger(list)
	return &dto.FinanceSummaryResponse{Income: income, Expense: expense, Balance: income.Sub(expense)}, nil
}

func sumLedger(list []model.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range list {
		if t.Type == model.TxExpense {
			expense = expense.Add(t.Amount)
		} else {
			income = income.Add(t.Amount)
		}
	}
	return income, expense
}

func transactionToResponse(t *model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		Description:   t.Description,
		Type:          t.Type,
		Amount:        t.Amount,
		Category:      t.Category,
		Date:          t.Date,
		PaymentMethod: t.PaymentMethod,
		ReferenceID:   t.ReferenceID,
		ReferenceType: t.ReferenceType,
		SessionID:     t.SessionID,
	}
}
