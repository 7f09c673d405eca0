package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"
	"christocar/internal/service"
	"christocar/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory repositories ────────────────────────────────────────────────────
// Each stub ignores the tx argument: runTx hands in nil when DB() is nil.

var (
	_ repository.ClientRepository      = (*stubClientRepo)(nil)
	_ repository.VehicleRepository     = (*stubVehicleRepo)(nil)
	_ repository.EmployeeRepository    = (*stubEmployeeRepo)(nil)
	_ repository.PartRepository        = (*stubPartRepo)(nil)
	_ repository.WashServiceRepository = (*stubWashServiceRepo)(nil)
	_ repository.WashRecordRepository  = (*stubWashRecordRepo)(nil)
	_ repository.OrderRepository       = (*stubOrderRepo)(nil)
	_ repository.CashRepository        = (*stubCashRepo)(nil)
	_ repository.TransactionRepository = (*stubTxRepo)(nil)
	_ repository.InvoiceRepository     = (*stubInvoiceRepo)(nil)
	_ repository.SystemLogRepository   = (*stubLogRepo)(nil)
	_ repository.SettingsRepository    = (*stubSettingsRepo)(nil)
)

type stubClientRepo struct{ rows map[uint]*model.Client }

func newStubClientRepo(cs ...model.Client) *stubClientRepo {
	r := &stubClientRepo{rows: map[uint]*model.Client{}}
	for i := range cs {
		c := cs[i]
		r.rows[c.ID] = &c
	}
	return r
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	c.ID = uint(len(r.rows) + 1)
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}
func (r *stubClientRepo) FindByID(_ context.Context, id uint) (*model.Client, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}
func (r *stubClientRepo) List(_ context.Context, search string) ([]model.Client, error) {
	var out []model.Client
	for _, c := range r.rows {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	return out, nil
}
func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}
func (r *stubClientRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubVehicleRepo struct{ rows map[uint]*model.Vehicle }

func newStubVehicleRepo(vs ...model.Vehicle) *stubVehicleRepo {
	r := &stubVehicleRepo{rows: map[uint]*model.Vehicle{}}
	for i := range vs {
		v := vs[i]
		r.rows[v.ID] = &v
	}
	return r
}

func (r *stubVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	v.ID = uint(len(r.rows) + 1)
	cp := *v
	r.rows[v.ID] = &cp
	return nil
}
func (r *stubVehicleRepo) FindByID(_ context.Context, id uint) (*model.Vehicle, error) {
	v, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}
func (r *stubVehicleRepo) List(_ context.Context, clientID uint) ([]model.Vehicle, error) {
	var out []model.Vehicle
	for _, v := range r.rows {
		if clientID == 0 || v.ClientID == clientID {
			out = append(out, *v)
		}
	}
	return out, nil
}
func (r *stubVehicleRepo) Update(_ context.Context, v *model.Vehicle) error {
	cp := *v
	r.rows[v.ID] = &cp
	return nil
}
func (r *stubVehicleRepo) Delete(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}

type stubEmployeeRepo struct{ rows map[uint]*model.Employee }

func newStubEmployeeRepo(es ...model.Employee) *stubEmployeeRepo {
	r := &stubEmployeeRepo{rows: map[uint]*model.Employee{}}
	for i := range es {
		e := es[i]
		r.rows[e.ID] = &e
	}
	return r
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	e.ID = uint(len(r.rows) + 1)
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}
func (r *stubEmployeeRepo) FindByID(_ context.Context, id uint) (*model.Employee, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}
func (r *stubEmployeeRepo) List(_ context.Context, includeInactive bool) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.rows {
		if includeInactive || e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}
func (r *stubEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}
func (r *stubEmployeeRepo) Deactivate(_ context.Context, id uint) error {
	e, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Active = false
	return nil
}

type stubPartRepo struct{ rows map[uint]*model.Part }

func newStubPartRepo(ps ...model.Part) *stubPartRepo {
	r := &stubPartRepo{rows: map[uint]*model.Part{}}
	for i := range ps {
		p := ps[i]
		r.rows[p.ID] = &p
	}
	return r
}

func (r *stubPartRepo) Create(_ context.Context, p *model.Part) error {
	p.ID = uint(len(r.rows) + 1)
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}
func (r *stubPartRepo) FindByID(_ context.Context, id uint) (*model.Part, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}
func (r *stubPartRepo) FindByCode(_ context.Context, code string) (*model.Part, error) {
	for _, p := range r.rows {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubPartRepo) List(_ context.Context, _ string) ([]model.Part, error) {
	var out []model.Part
	for _, p := range r.rows {
		out = append(out, *p)
	}
	return out, nil
}
func (r *stubPartRepo) Update(_ context.Context, p *model.Part) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}
func (r *stubPartRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubWashServiceRepo struct{ rows map[uint]*model.WashService }

func newStubWashServiceRepo(ws ...model.WashService) *stubWashServiceRepo {
	r := &stubWashServiceRepo{rows: map[uint]*model.WashService{}}
	for i := range ws {
		w := ws[i]
		r.rows[w.ID] = &w
	}
	return r
}

func (r *stubWashServiceRepo) Create(_ context.Context, s *model.WashService) error {
	s.ID = uint(len(r.rows) + 1)
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}
func (r *stubWashServiceRepo) FindByID(_ context.Context, id uint) (*model.WashService, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}
func (r *stubWashServiceRepo) List(_ context.Context) ([]model.WashService, error) {
	var out []model.WashService
	for _, s := range r.rows {
		out = append(out, *s)
	}
	return out, nil
}
func (r *stubWashServiceRepo) Update(_ context.Context, s *model.WashService) error {
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}
func (r *stubWashServiceRepo) Delete(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}

type stubWashRecordRepo struct {
	mu   sync.Mutex
	rows map[uint]*model.WashRecord
}

func newStubWashRecordRepo() *stubWashRecordRepo {
	return &stubWashRecordRepo{rows: map[uint]*model.WashRecord{}}
}

func (r *stubWashRecordRepo) DB() *gorm.DB { return nil }
func (r *stubWashRecordRepo) Create(_ context.Context, w *model.WashRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = uint(len(r.rows) + 1)
	cp := *w
	r.rows[w.ID] = &cp
	return nil
}
func (r *stubWashRecordRepo) FindByID(_ context.Context, id uint) (*model.WashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}
func (r *stubWashRecordRepo) List(_ context.Context) ([]model.WashRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WashRecord
	for _, w := range r.rows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
func (r *stubWashRecordRepo) MarkFinalized(_ context.Context, _ *gorm.DB, id uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[id]
	if !ok || w.Finalized {
		return false, nil
	}
	w.Finalized = true
	w.FinalizedAt = &at
	return true, nil
}

type stubOrderRepo struct {
	rows   map[uint]*model.ServiceOrder
	nextID uint
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{rows: map[uint]*model.ServiceOrder{}, nextID: 1}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }
func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.ServiceOrder) error {
	o.ID = r.nextID
	r.nextID++
	o.Number = model.OrderNumber(o.Date.Year(), o.ID)
	r.rows[o.ID] = o.Clone()
	return nil
}
func (r *stubOrderRepo) FindByID(_ context.Context, id uint) (*model.ServiceOrder, error) {
	o, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o.Clone(), nil
}
func (r *stubOrderRepo) List(_ context.Context, f dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	var out []model.ServiceOrder
	for _, o := range r.rows {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}
func (r *stubOrderRepo) Replace(_ context.Context, _ *gorm.DB, o *model.ServiceOrder) error {
	if _, ok := r.rows[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[o.ID] = o.Clone()
	return nil
}
func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	o, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

// put stores a fully built order directly.
func (r *stubOrderRepo) put(o *model.ServiceOrder) *model.ServiceOrder {
	o.ID = r.nextID
	r.nextID++
	o.Number = model.OrderNumber(o.Date.Year(), o.ID)
	r.rows[o.ID] = o.Clone()
	return o
}

type stubCashRepo struct {
	mu    sync.Mutex
	rows  []*model.CashSession
	locks []string
}

func (r *stubCashRepo) Create(_ context.Context, s *model.CashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Status == model.SessionOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	s.ID = uint(len(r.rows) + 1)
	cp := *s
	r.rows = append(r.rows, &cp)
	return nil
}
func (r *stubCashRepo) FindOpen(_ context.Context) (*model.CashSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.Status == model.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubCashRepo) FindByID(_ context.Context, id uint) (*model.CashSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubCashRepo) LockOpen(ctx context.Context, _ *gorm.DB, strength string) (*model.CashSession, error) {
	r.mu.Lock()
	r.locks = append(r.locks, strength)
	r.mu.Unlock()
	return r.FindOpen(ctx)
}
func (r *stubCashRepo) DB() *gorm.DB { return nil }
func (r *stubCashRepo) Update(_ context.Context, _ *gorm.DB, s *model.CashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.rows {
		if x.ID == s.ID {
			cp := *s
			r.rows[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (r *stubCashRepo) List(_ context.Context, _, _ int) ([]model.CashSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashSession
	for i := len(r.rows) - 1; i >= 0; i-- {
		out = append(out, *r.rows[i])
	}
	return out, int64(len(out)), nil
}

type stubTxRepo struct {
	mu   sync.Mutex
	rows []model.Transaction
}

func (r *stubTxRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *t)
	return nil
}
func (r *stubTxRepo) ListTx(ctx context.Context, _ *gorm.DB, f repository.TransactionFilter) ([]model.Transaction, int64, error) {
	return r.List(ctx, f)
}
func (r *stubTxRepo) List(_ context.Context, f repository.TransactionFilter) ([]model.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for i := len(r.rows) - 1; i >= 0; i-- {
		if f.Type != "" && r.rows[i].Type != f.Type {
			continue
		}
		out = append(out, r.rows[i])
	}
	return out, int64(len(out)), nil
}

type stubInvoiceRepo struct {
	mu   sync.Mutex
	rows []*model.Invoice
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }
func (r *stubInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.ServiceOrderID == inv.ServiceOrderID {
			return gorm.ErrDuplicatedKey
		}
	}
	inv.ID = uint(len(r.rows) + 1)
	cp := *inv
	r.rows = append(r.rows, &cp)
	return nil
}
func (r *stubInvoiceRepo) FindByID(_ context.Context, id uint) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubInvoiceRepo) FindByOrderID(_ context.Context, orderID uint) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.ServiceOrderID == orderID {
			cp := *x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubInvoiceRepo) List(_ context.Context) ([]model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, x := range r.rows {
		out = append(out, *x)
	}
	return out, nil
}
func (r *stubInvoiceRepo) UpdatePDFPath(_ context.Context, id uint, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.ID == id {
			x.PDFPath = &path
		}
	}
	return nil
}

type stubLogRepo struct {
	mu   sync.Mutex
	rows []model.SystemLog
}

func (r *stubLogRepo) Create(_ context.Context, l *model.SystemLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *l)
	return nil
}
func (r *stubLogRepo) List(_ context.Context, action string, _, _ int) ([]model.SystemLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SystemLog
	for i := len(r.rows) - 1; i >= 0; i-- {
		if action == "" || r.rows[i].Action == action {
			out = append(out, r.rows[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLogRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.rows {
		out = append(out, l.Action)
	}
	return out
}

type stubSettingsRepo struct{ s model.AppSettings }

func (r *stubSettingsRepo) Get(_ context.Context) (*model.AppSettings, error) {
	cp := r.s
	return &cp, nil
}
func (r *stubSettingsRepo) Save(_ context.Context, s *model.AppSettings) error {
	r.s = *s
	return nil
}

// ── Emission queue ────────────────────────────────────────────────────────────

type stubQueue struct {
	mu       sync.Mutex
	down     bool // every call fails as if Redis were unreachable
	markers  map[uint]bool
	invoices []worker.InvoiceJobPayload
	emails   []worker.EmailJobPayload
}

func newStubQueue() *stubQueue { return &stubQueue{markers: map[uint]bool{}} }

func (q *stubQueue) MarkInFlight(_ context.Context, id uint, _ time.Duration) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return false, worker.ErrQueueUnavailable
	}
	if q.markers[id] {
		return false, nil
	}
	q.markers[id] = true
	return true, nil
}
func (q *stubQueue) ClearInFlight(_ context.Context, id uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return worker.ErrQueueUnavailable
	}
	delete(q.markers, id)
	return nil
}
func (q *stubQueue) IsInFlight(_ context.Context, id uint) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return false, worker.ErrQueueUnavailable
	}
	return q.markers[id], nil
}
func (q *stubQueue) EnqueueInvoice(_ context.Context, p worker.InvoiceJobPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return worker.ErrQueueUnavailable
	}
	q.invoices = append(q.invoices, p)
	return nil
}
func (q *stubQueue) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.down {
		return worker.ErrQueueUnavailable
	}
	q.emails = append(q.emails, p)
	return nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

var (
	cashier = service.Actor{ID: 3, Name: "Carla", Role: model.RoleCashier}
	manager = service.Actor{ID: 1, Name: "Roberto", Role: model.RoleManager}
)

func openRegister(t *testing.T, cash *stubCashRepo, opening string) {
	t.Helper()
	require.NoError(t, cash.Create(context.Background(), &model.CashSession{
		Status:         model.SessionOpen,
		OpenedAt:       time.Now(),
		OpenedBy:       "fixture",
		OpeningBalance: decimal.RequireFromString(opening),
	}))
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	require.NoError(t, err)
	return d.Add(10 * time.Hour)
}
