package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"christocar/internal/dto"
	"christocar/internal/infra"
	"christocar/internal/model"
	"christocar/internal/repository"
	"christocar/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	invoiceCategory = "Nota Fiscal"
	invoicePayment  = "boleto"
)

// EmissionQueue is the Redis side of emission; *worker.Dispatcher implements it.
type EmissionQueue interface {
	MarkInFlight(ctx context.Context, orderID uint, ttl time.Duration) (bool, error)
	ClearInFlight(ctx context.Context, orderID uint) error
	IsInFlight(ctx context.Context, orderID uint) (bool, error)
	EnqueueInvoice(ctx context.Context, p worker.InvoiceJobPayload) error
	EnqueueEmail(ctx context.Context, p worker.EmailJobPayload) error
}

type InvoiceConfig struct {
	Delay       time.Duration
	InFlightTTL time.Duration
	PDFPath     string // empty disables PDF generation
	Company     infra.Company
}

type InvoiceService interface {
	Emit(ctx context.Context, actor Actor, orderID uint) (*dto.EmissionResponse, error)
	// CompleteEmission is the worker half of Emit.
	CompleteEmission(ctx context.Context, orderID uint, requestedBy string) error
	EmissionStatus(ctx context.Context, orderID uint) (*dto.EmissionResponse, error)
	List(ctx context.Context) ([]dto.InvoiceResponse, error)
	PendingOrders(ctx context.Context) ([]dto.PendingOrderResponse, error)
	PDF(ctx context.Context, id uint) (string, error)
}

type invoiceService struct {
	invoices repository.InvoiceRepository
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	gate     ledgerGate
	queue    EmissionQueue
	audit    AuditService
	cfg      InvoiceConfig
	now      func() time.Time
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	orders repository.OrderRepository,
	clients repository.ClientRepository,
	cash repository.CashRepository,
	txs repository.TransactionRepository,
	queue EmissionQueue,
	audit AuditService,
	cfg InvoiceConfig,
) InvoiceService {
	if cfg.InFlightTTL <= 0 {
		cfg.InFlightTTL = 2 * time.Minute
	}
	return &invoiceService{
		invoices: invoices,
		orders:   orders,
		clients:  clients,
		gate:     ledgerGate{cash: cash, txs: txs},
		queue:    queue,
		audit:    audit,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ── Emit ──────────────────────────────────────────────────────────────────────
// 1. order finished, no invoice yet, register open
// 2. SETNX in-flight marker; an existing marker means a duplicate request
// 3. enqueue the job → 202 processing/queued
// 4. queue unreachable → finish in-process → authorized/local_fallback

func (s *invoiceService) Emit(ctx context.Context, actor Actor, orderID uint) (*dto.EmissionResponse, error) {
	if _, err := s.checkEmittable(ctx, orderID); err != nil {
		return nil, err
	}

	marked, err := s.queue.MarkInFlight(ctx, orderID, s.cfg.InFlightTTL)
	switch {
	case err != nil:
		log.Warn().Err(err).Uint("order_id", orderID).Msg("invoice: queue unavailable, emitting locally")
		return s.emitLocal(ctx, actor, orderID)
	case !marked:
		return nil, ErrEmissionInFlight
	}

	if err := s.queue.EnqueueInvoice(ctx, worker.InvoiceJobPayload{OrderID: orderID, RequestedBy: actor.Name}); err != nil {
		log.Warn().Err(err).Uint("order_id", orderID).Msg("invoice: enqueue failed, emitting locally")
		return s.emitLocal(ctx, actor, orderID)
	}
	return &dto.EmissionResponse{OrderID: orderID, Status: "processing", Path: dto.PathQueued}, nil
}

func (s *invoiceService) emitLocal(ctx context.Context, actor Actor, orderID uint) (*dto.EmissionResponse, error) {
	inv, err := s.complete(ctx, orderID, actor.Name)
	if err != nil {
		return nil, err
	}
	r := invoiceToResponse(inv)
	return &dto.EmissionResponse{OrderID: orderID, Status: inv.Status, Path: dto.PathLocalFallback, Invoice: &r}, nil
}

// checkEmittable applies every precondition that does not involve the queue.
func (s *invoiceService) checkEmittable(ctx context.Context, orderID uint) (*model.ServiceOrder, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if o.Status != model.OrderFinished {
		return nil, ErrOrderNotFinished
	}
	if _, err := s.invoices.FindByOrderID(ctx, orderID); err == nil {
		return nil, ErrInvoiceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.gate.openSession(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *invoiceService) CompleteEmission(ctx context.Context, orderID uint, requestedBy string) error {
	_, err := s.complete(ctx, orderID, requestedBy)
	return err
}

// complete authorizes the invoice. Invoice and income entry are written in
// one transaction; on any failure nothing is persisted. The in-flight
// marker is cleared either way.
func (s *invoiceService) complete(ctx context.Context, orderID uint, requestedBy string) (*model.Invoice, error) {
	defer func() {
		if err := s.queue.ClearInFlight(context.WithoutCancel(ctx), orderID); err != nil && !errors.Is(err, worker.ErrQueueUnavailable) {
			log.Warn().Err(err).Uint("order_id", orderID).Msg("invoice: failed to clear in-flight marker")
		}
	}()

	if s.cfg.Delay > 0 {
		select {
		case <-time.After(s.cfg.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// state may have moved while the job sat in the queue
	o, err := s.checkEmittable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, o.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", notFound(err))
	}

	now := s.now()
	inv := &model.Invoice{
		ServiceOrderID: o.ID,
		ClientName:     client.Name,
		Amount:         o.Total,
		Status:         model.InvoiceAuthorized,
		AccessKey:      infra.NewAccessKey(now, s.cfg.Company.CNPJ, o.ID),
		IssuedAt:       now,
	}
	ref := model.RefOrder
	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		if err := s.invoices.Create(ctx, tx, inv); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInvoiceExists
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		return s.gate.record(ctx, tx, &model.Transaction{
			Description:   fmt.Sprintf("NF-e %s", o.Number),
			Type:          model.TxIncome,
			Amount:        o.Total,
			Category:      invoiceCategory,
			Date:          now,
			PaymentMethod: invoicePayment,
			ReferenceID:   &o.ID,
			ReferenceType: &ref,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, requestedBy, model.ActionInvoiceEmitted,
		fmt.Sprintf("NF-e emitida para %s (R$ %s)", o.Number, o.Total.StringFixed(2)),
		map[string]any{"order_id": o.ID, "invoice_id": inv.ID, "access_key": inv.AccessKey})
	log.Info().Uint("order_id", o.ID).Uint("invoice_id", inv.ID).Msg("invoice authorized")

	s.afterAuthorization(ctx, inv, o, client)
	return inv, nil
}

// afterAuthorization renders the PDF and queues the email. Failures here are
// logged only; the invoice is already authorized.
func (s *invoiceService) afterAuthorization(ctx context.Context, inv *model.Invoice, o *model.ServiceOrder, c *model.Client) {
	if s.cfg.PDFPath == "" {
		return
	}
	path, err := infra.GenerateInvoicePDF(inv, o, s.cfg.Company, s.cfg.PDFPath)
	if err != nil {
		log.Error().Err(err).Uint("invoice_id", inv.ID).Msg("invoice: pdf generation failed")
		return
	}
	rel := filepath.Base(path)
	inv.PDFPath = &rel
	if err := s.invoices.UpdatePDFPath(ctx, inv.ID, rel); err != nil {
		log.Error().Err(err).Uint("invoice_id", inv.ID).Msg("invoice: failed to store pdf path")
	}

	if c.Email == nil || *c.Email == "" {
		return
	}
	err = s.queue.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: *c.Email,
		Subject: fmt.Sprintf("%s - Nota Fiscal %s", s.cfg.Company.Name, o.Number),
		Body:    fmt.Sprintf("Olá %s,\n\nSegue em anexo a nota fiscal da %s.\n\n%s", c.Name, o.Number, s.cfg.Company.Name),
		PDFPath: path,
	})
	if err != nil {
		log.Warn().Err(err).Uint("invoice_id", inv.ID).Msg("invoice: email not queued")
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *invoiceService) EmissionStatus(ctx context.Context, orderID uint) (*dto.EmissionResponse, error) {
	inv, err := s.invoices.FindByOrderID(ctx, orderID)
	if err == nil {
		r := invoiceToResponse(inv)
		return &dto.EmissionResponse{OrderID: orderID, Status: inv.Status, Invoice: &r}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	inFlight, qerr := s.queue.IsInFlight(ctx, orderID)
	if qerr == nil && inFlight {
		return &dto.EmissionResponse{OrderID: orderID, Status: "processing", Path: dto.PathQueued}, nil
	}
	return &dto.EmissionResponse{OrderID: orderID, Status: "none"}, nil
}

func (s *invoiceService) List(ctx context.Context) ([]dto.InvoiceResponse, error) {
	list, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for i := range list {
		out = append(out, invoiceToResponse(&list[i]))
	}
	return out, nil
}

// PendingOrders lists finished orders that have no invoice yet.
func (s *invoiceService) PendingOrders(ctx context.Context) ([]dto.PendingOrderResponse, error) {
	orders, _, err := s.orders.List(ctx, dto.OrderFilter{Status: model.OrderFinished})
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	invoiced := make(map[uint]bool, len(invoices))
	for _, inv := range invoices {
		invoiced[inv.ServiceOrderID] = true
	}

	names := map[uint]string{}
	out := []dto.PendingOrderResponse{}
	for _, o := range orders {
		if invoiced[o.ID] {
			continue
		}
		name, ok := names[o.ClientID]
		if !ok {
			if c, err := s.clients.FindByID(ctx, o.ClientID); err == nil {
				name = c.Name
			}
			names[o.ClientID] = name
		}
		inFlight, _ := s.queue.IsInFlight(ctx, o.ID)
		out = append(out, dto.PendingOrderResponse{
			OrderID: o.ID, Number: o.Number, ClientName: name, Total: o.Total, InFlight: inFlight,
		})
	}
	return out, nil
}

// PDF returns the absolute file path, regenerating the document when it is
// missing on disk.
func (s *invoiceService) PDF(ctx context.Context, id uint) (string, error) {
	if s.cfg.PDFPath == "" {
		return "", ErrNotFound
	}
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return "", notFound(err)
	}
	if inv.PDFPath != nil {
		path := filepath.Join(s.cfg.PDFPath, *inv.PDFPath)
		if fileExists(path) {
			return path, nil
		}
	}
	o, err := s.orders.FindByID(ctx, inv.ServiceOrderID)
	if err != nil {
		return "", notFound(err)
	}
	path, err := infra.GenerateInvoicePDF(inv, o, s.cfg.Company, s.cfg.PDFPath)
	if err != nil {
		return "", err
	}
	if err := s.invoices.UpdatePDFPath(ctx, inv.ID, filepath.Base(path)); err != nil {
		log.Warn().Err(err).Uint("invoice_id", inv.ID).Msg("invoice: failed to store pdf path")
	}
	return path, nil
}

func invoiceToResponse(inv *model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:             inv.ID,
		ServiceOrderID: inv.ServiceOrderID,
		ClientName:     inv.ClientName,
		Amount:         inv.Amount,
		Status:         inv.Status,
		AccessKey:      inv.AccessKey,
		IssuedAt:       inv.IssuedAt,
		PDFPath:        inv.PDFPath,
	}
}
