package service

import (
	"context"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardService recomputes aggregates from current state on every call.
type DashboardService interface {
	// Stats matches the figures the front desk has always shown: no date filter.
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	// ScopedStats restricts revenue to today / this month and counts finalized washes.
	ScopedStats(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardService struct {
	orders repository.OrderRepository
	washes repository.WashRecordRepository
	txs    repository.TransactionRepository
	now    func() time.Time
}

func NewDashboardService(orders repository.OrderRepository, washes repository.WashRecordRepository, txs repository.TransactionRepository) DashboardService {
	return &dashboardService{orders: orders, washes: washes, txs: txs, now: time.Now}
}

type snapshot struct {
	orders []model.ServiceOrder
	washes []model.WashRecord
	txs    []model.Transaction
}

func (s *dashboardService) load(ctx context.Context) (*snapshot, error) {
	orders, _, err := s.orders.List(ctx, dto.OrderFilter{})
	if err != nil {
		return nil, err
	}
	washes, err := s.washes.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, _, err := s.txs.List(ctx, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	return &snapshot{orders: orders, washes: washes, txs: txs}, nil
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	st := ComputeStats(snap.orders, snap.washes, snap.txs)
	return &st, nil
}

func (s *dashboardService) ScopedStats(ctx context.Context) (*dto.DashboardStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	st := ComputeScopedStats(snap.orders, snap.washes, snap.txs, s.now())
	return &st, nil
}

// ComputeStats: dailyRevenue = Σ wash values, activeOS = analysis + in_progress,
// completedWashes = every wash record, monthlyRevenue = Σ income.
func ComputeStats(orders []model.ServiceOrder, washes []model.WashRecord, txs []model.Transaction) dto.DashboardStats {
	daily := decimal.Zero
	for _, w := range washes {
		daily = daily.Add(w.Value)
	}
	income, _ := sumLedger(txs)
	return dto.DashboardStats{
		Scope:           dto.ScopeUnscoped,
		DailyRevenue:    daily,
		ActiveOS:        countActive(orders),
		CompletedWashes: len(washes),
		MonthlyRevenue:  income,
	}
}

func ComputeScopedStats(orders []model.ServiceOrder, washes []model.WashRecord, txs []model.Transaction, now time.Time) dto.DashboardStats {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	daily, monthly := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Type != model.TxIncome || t.Date.Before(startOfMonth) {
			continue
		}
		monthly = monthly.Add(t.Amount)
		if !t.Date.Before(startOfDay) {
			daily = daily.Add(t.Amount)
		}
	}
	finalized := 0
	for _, w := range washes {
		if w.Finalized {
			finalized++
		}
	}
	return dto.DashboardStats{
		Scope:           dto.ScopeCalendar,
		DailyRevenue:    daily,
		ActiveOS:        countActive(orders),
		CompletedWashes: finalized,
		MonthlyRevenue:  monthly,
	}
}

func countActive(orders []model.ServiceOrder) int {
	n := 0
	for _, o := range orders {
		if o.Status == model.OrderAnalysis || o.Status == model.OrderInProgress {
			n++
		}
	}
	return n
}
