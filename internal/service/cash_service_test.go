package service_test

import (
	"context"
	"testing"

	"christocar/internal/config"
	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCashSvc(scope string) (service.CashService, *stubCashRepo, *stubTxRepo, *stubLogRepo) {
	cash, txs, logs := &stubCashRepo{}, &stubTxRepo{}, &stubLogRepo{}
	return service.NewCashService(cash, txs, service.NewAuditService(logs), scope), cash, txs, logs
}

func TestOpenCash(t *testing.T) {
	svc, _, _, logs := newCashSvc(config.ScopeLedger)

	resp, err := svc.Open(context.Background(), cashier, dto.OpenCashRequest{OpeningBalance: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.Equal(t, "Carla", resp.OpenedBy)
	assert.True(t, resp.OpeningBalance.Equal(dec("100")))
	assert.Contains(t, logs.actions(), model.ActionCashOpen)

	cur, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.ID, cur.ID)
}

func TestOpenCash_AlreadyOpen(t *testing.T) {
	svc, _, _, _ := newCashSvc(config.ScopeLedger)
	_, err := svc.Open(context.Background(), cashier, dto.OpenCashRequest{OpeningBalance: dec("100")})
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), manager, dto.OpenCashRequest{OpeningBalance: dec("50")})
	assert.ErrorIs(t, err, service.ErrSessionAlreadyOpen)
}

func TestCloseCash_WithoutOpenSession(t *testing.T) {
	svc, _, _, _ := newCashSvc(config.ScopeLedger)
	_, err := svc.Close(context.Background(), cashier, dto.CloseCashRequest{ClosingBalance: dec("0")})
	assert.ErrorIs(t, err, service.ErrNoOpenSession)

	_, err = svc.Current(context.Background())
	assert.ErrorIs(t, err, service.ErrNoOpenSession)
}

func TestCloseCash_Reconciliation(t *testing.T) {
	ctx := context.Background()
	svc, _, txs, logs := newCashSvc(config.ScopeLedger)

	// ledger scope: entries are summed whether or not they carry a session
	_, err := svc.Open(ctx, cashier, dto.OpenCashRequest{OpeningBalance: dec("100")})
	require.NoError(t, err)
	require.NoError(t, txs.Create(ctx, nil, &model.Transaction{Type: model.TxIncome, Amount: dec("50")}))
	require.NoError(t, txs.Create(ctx, nil, &model.Transaction{Type: model.TxExpense, Amount: dec("20")}))

	resp, err := svc.Close(ctx, cashier, dto.CloseCashRequest{ClosingBalance: dec("125")})
	require.NoError(t, err)
	assert.Equal(t, model.SessionClosed, resp.Status)
	require.NotNil(t, resp.ExpectedBalance)
	assert.True(t, resp.ExpectedBalance.Equal(dec("130")), "got %s", resp.ExpectedBalance)
	assert.True(t, resp.Difference.Equal(dec("-5")))
	assert.Equal(t, config.ScopeLedger, resp.Scope)
	assert.Contains(t, logs.actions(), model.ActionCashClose)

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, service.ErrNoOpenSession)
}

func TestCloseCash_SessionScope(t *testing.T) {
	ctx := context.Background()
	svc, cash, txs, _ := newCashSvc(config.ScopeSession)

	// entry from a previous day, outside any session
	require.NoError(t, txs.Create(ctx, nil, &model.Transaction{Type: model.TxIncome, Amount: dec("1000")}))

	opened, err := svc.Open(ctx, cashier, dto.OpenCashRequest{OpeningBalance: dec("100")})
	require.NoError(t, err)
	finance := service.NewFinanceService(txs, cash)
	_, err = finance.RecordTransaction(ctx, cashier, dto.TransactionRequest{
		Description: "Troca de óleo", Type: model.TxIncome, Amount: dec("50"), Category: "Serviços", PaymentMethod: "pix",
	})
	require.NoError(t, err)

	resp, err := svc.Close(ctx, cashier, dto.CloseCashRequest{ClosingBalance: dec("150")})
	require.NoError(t, err)
	assert.Equal(t, opened.ID, resp.ID)
	assert.True(t, resp.ExpectedBalance.Equal(dec("150")))
	assert.True(t, resp.Difference.IsZero())
	assert.Equal(t, config.ScopeSession, resp.Scope)
}

func TestCashHistory_KeepsClosedSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCashSvc(config.ScopeLedger)
	for i := 0; i < 2; i++ {
		_, err := svc.Open(ctx, cashier, dto.OpenCashRequest{OpeningBalance: dec("10")})
		require.NoError(t, err)
		_, err = svc.Close(ctx, cashier, dto.CloseCashRequest{ClosingBalance: dec("10")})
		require.NoError(t, err)
	}
	hist, err := svc.History(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hist.Total)
	assert.Equal(t, 1, hist.Page)
	for _, s := range hist.Data {
		assert.Equal(t, model.SessionClosed, s.Status)
	}
}
