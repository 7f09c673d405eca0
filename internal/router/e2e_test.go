//go:build integration

package router_test

// End-to-end run against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"christocar/internal/config"
	"christocar/internal/infra"
	"christocar/internal/model"
	"christocar/internal/router"
	"christocar/internal/service"
	"christocar/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Environment ──────────────────────────────────────────────────────────────

type testEnv struct {
	server  *httptest.Server
	manager string // JWT
	washer  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("christocar_test"),
		tcPostgres.WithUsername("christocar"),
		tcPostgres.WithPassword("christocar"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                    8000,
		Env:                     "test",
		WorkerPoolSize:          1,
		DatabaseURL:             pgURL,
		RedisURL:                rdURL,
		JWTSecret:               "e2e-secret",
		JWTExpirationHours:      1,
		PDFStoragePath:          t.TempDir(),
		CompanyName:             "Auto Center E2E",
		CompanyCNPJ:             "11222333000181",
		InvoiceEmissionDelay:    50 * time.Millisecond,
		InvoiceInFlightTTL:      time.Minute,
		CashReconciliationScope: config.ScopeLedger,
	}

	require.NoError(t, infra.RunMigrations(cfg.DatabaseURL))
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := service.HashPIN("1234")
	require.NoError(t, err)
	mgr := model.Employee{Name: "Roberto", Role: model.RoleManager, PinHash: hash, Active: true}
	wsh := model.Employee{Name: "Pedro", Role: model.RoleWasher, PinHash: hash, Active: true}
	require.NoError(t, db.Create(&mgr).Error)
	require.NoError(t, db.Create(&wsh).Error)

	svcs := router.NewServices(cfg, db, worker.NewDispatcher(rdb), nil, infra.NewCircuitBreaker("assistant", infra.DefaultCBConfig()))
	wg := worker.StartWorkerPool(ctx, rdb, worker.Handlers{
		Invoice: worker.NewInvoiceWorker(svcs.Invoice, rdb),
		Email:   worker.NewEmailWorker(infra.NewMailer(cfg), rdb),
	}, cfg.WorkerPoolSize)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	srv := httptest.NewServer(router.New(cfg, db, rdb, svcs))
	t.Cleanup(srv.Close)

	return &testEnv{
		server:  srv,
		manager: login(t, srv, mgr.ID),
		washer:  login(t, srv, wsh.ID),
	}
}

func login(t *testing.T, srv *httptest.Server, employeeID uint) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]any{"employee_id": employeeID, "pin": "1234"}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

type idBody struct {
	ID uint `json:"id"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_OrderToInvoice(t *testing.T) {
	env := setupTestEnv(t)
	srv, tok := env.server, env.manager

	resp := do(t, srv, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "POST", "/v1/customers",
		jsonBody(t, map[string]any{"name": "João Silva", "email": "joao@example.com"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client idBody
	decodeJSON(t, resp, &client)

	resp = do(t, srv, "POST", "/v1/vehicles",
		jsonBody(t, map[string]any{"client_id": client.ID, "plate": "abc1d23", "model": "Onix", "brand": "Chevrolet"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vehicle idBody
	decodeJSON(t, resp, &vehicle)

	resp = do(t, srv, "POST", "/v1/service-orders",
		jsonBody(t, map[string]any{"client_id": client.ID, "vehicle_id": vehicle.ID}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order idBody
	decodeJSON(t, resp, &order)
	base := fmt.Sprintf("/v1/service-orders/%d", order.ID)

	resp = do(t, srv, "POST", base+"/services",
		jsonBody(t, map[string]any{"description": "Troca de óleo", "price": "150", "quantity": 1}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, srv, "POST", base+"/parts",
		jsonBody(t, map[string]any{"code": "P-100", "name": "Filtro", "price": "50", "quantity": 2}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var withParts struct {
		Total decimal.Decimal `json:"total"`
	}
	decodeJSON(t, resp, &withParts)
	assert.True(t, withParts.Total.Equal(decimal.NewFromInt(250)), "total = %s", withParts.Total)

	// Not finished yet.
	emitPath := fmt.Sprintf("/v1/invoices/emit/%d", order.ID)
	resp = do(t, srv, "POST", emitPath, nil, tok)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "PATCH", base+"/status", jsonBody(t, map[string]any{"status": "finished"}), tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Register closed.
	resp = do(t, srv, "POST", emitPath, nil, tok)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "POST", "/v1/cash/open", jsonBody(t, map[string]any{"opening_balance": "100"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "POST", emitPath, nil, tok)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var emitted struct {
		Status string `json:"status"`
		Path   string `json:"path"`
	}
	decodeJSON(t, resp, &emitted)
	assert.Equal(t, "processing", emitted.Status)
	assert.Equal(t, "queued", emitted.Path)

	statusPath := fmt.Sprintf("/v1/invoices/emissions/%d", order.ID)
	require.Eventually(t, func() bool {
		r := do(t, srv, "GET", statusPath, nil, tok)
		var s struct {
			Status string `json:"status"`
		}
		decodeJSON(t, r, &s)
		return s.Status == model.InvoiceAuthorized
	}, 15*time.Second, 100*time.Millisecond)

	resp = do(t, srv, "POST", emitPath, nil, tok)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "GET", "/v1/transactions/summary", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Income decimal.Decimal `json:"income"`
	}
	decodeJSON(t, resp, &summary)
	assert.True(t, summary.Income.Equal(decimal.NewFromInt(250)), "income = %s", summary.Income)

	resp = do(t, srv, "POST", "/v1/cash/close", jsonBody(t, map[string]any{"closing_balance": "350"}), tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed struct {
		Difference decimal.Decimal `json:"difference"`
	}
	decodeJSON(t, resp, &closed)
	assert.True(t, closed.Difference.IsZero(), "difference = %s", closed.Difference)
}

func TestE2E_WasherCannotReachCash(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/cash/open",
		jsonBody(t, map[string]any{"opening_balance": "0"}), env.washer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/wash-records", nil, env.washer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_CourtesyWashFinalizes(t *testing.T) {
	env := setupTestEnv(t)
	srv, tok := env.server, env.manager

	resp := do(t, srv, "POST", "/v1/wash-services", jsonBody(t, map[string]any{"name": "Cortesia", "price": "0"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var svc idBody
	decodeJSON(t, resp, &svc)

	resp = do(t, srv, "POST", "/v1/cash/open", jsonBody(t, map[string]any{"opening_balance": "0"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "POST", "/v1/wash-records",
		jsonBody(t, map[string]any{"plate": "QWE4R56", "vehicle_model": "Hilux", "service_type_id": svc.ID}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var wash idBody
	decodeJSON(t, resp, &wash)

	resp = do(t, srv, "PUT", fmt.Sprintf("/v1/wash-records/%d/complete", wash.ID), nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done struct {
		Finalized bool `json:"finalized"`
	}
	decodeJSON(t, resp, &done)
	assert.True(t, done.Finalized)
}

func TestE2E_CloseSerializesWithLedgerWrites(t *testing.T) {
	env := setupTestEnv(t)
	srv, tok := env.server, env.manager

	resp := do(t, srv, "POST", "/v1/cash/open", jsonBody(t, map[string]any{"opening_balance": "100"}), tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	entry, err := json.Marshal(map[string]any{
		"description": "Serviço avulso", "type": "income", "amount": "10",
		"category": "Oficina", "payment_method": "pix",
	})
	require.NoError(t, err)

	const writers = 20
	var (
		mu       sync.Mutex
		accepted int
		wg       sync.WaitGroup
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest("POST", srv.URL+"/v1/transactions", bytes.NewReader(entry))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+tok)
			r, err := srv.Client().Do(req)
			if err != nil {
				return
			}
			r.Body.Close()
			if r.StatusCode == http.StatusCreated {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	resp = do(t, srv, "POST", "/v1/cash/close", jsonBody(t, map[string]any{"closing_balance": "0"}), tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed struct {
		ExpectedBalance decimal.Decimal `json:"expected_balance"`
	}
	decodeJSON(t, resp, &closed)
	wg.Wait()

	want := decimal.NewFromInt(100 + 10*int64(accepted))
	assert.True(t, closed.ExpectedBalance.Equal(want), "expected %s, got %s", want, closed.ExpectedBalance)
}
