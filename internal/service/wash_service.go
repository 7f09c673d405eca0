package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const washCategory = "Lava-Rápido"

type WashService interface {
	// catalog
	CreateService(ctx context.Context, req dto.WashServiceRequest) (*dto.WashServiceResponse, error)
	ListServices(ctx context.Context) ([]dto.WashServiceResponse, error)
	UpdateService(ctx context.Context, id uint, req dto.WashServiceRequest) (*dto.WashServiceResponse, error)
	DeleteService(ctx context.Context, id uint) error

	// records
	Create(ctx context.Context, actor Actor, req dto.CreateWashRecordRequest) (*dto.WashRecordResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.WashRecordResponse, error)
	Finalize(ctx context.Context, actor Actor, id uint, req dto.CompleteWashRequest) (*dto.WashRecordResponse, error)
}

type washService struct {
	catalog   repository.WashServiceRepository
	records   repository.WashRecordRepository
	employees repository.EmployeeRepository
	gate      ledgerGate
	audit     AuditService
	now       func() time.Time
}

func NewWashService(
	catalog repository.WashServiceRepository,
	records repository.WashRecordRepository,
	employees repository.EmployeeRepository,
	cash repository.CashRepository,
	txs repository.TransactionRepository,
	audit AuditService,
) WashService {
	return &washService{
		catalog:   catalog,
		records:   records,
		employees: employees,
		gate:      ledgerGate{cash: cash, txs: txs},
		audit:     audit,
		now:       time.Now,
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *washService) CreateService(ctx context.Context, req dto.WashServiceRequest) (*dto.WashServiceResponse, error) {
	ws := &model.WashService{Name: req.Name, Price: req.Price}
	if err := s.catalog.Create(ctx, ws); err != nil {
		return nil, err
	}
	return washServiceToResponse(ws), nil
}

func (s *washService) ListServices(ctx context.Context) ([]dto.WashServiceResponse, error) {
	list, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WashServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, *washServiceToResponse(&list[i]))
	}
	return out, nil
}

// UpdateService changes the catalog only; existing records keep their snapshot.
func (s *washService) UpdateService(ctx context.Context, id uint, req dto.WashServiceRequest) (*dto.WashServiceResponse, error) {
	ws, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	ws.Name, ws.Price = req.Name, req.Price
	if err := s.catalog.Update(ctx, ws); err != nil {
		return nil, err
	}
	return washServiceToResponse(ws), nil
}

func (s *washService) DeleteService(ctx context.Context, id uint) error {
	return notFound(s.catalog.Delete(ctx, id))
}

// ── Records ───────────────────────────────────────────────────────────────────

func (s *washService) Create(ctx context.Context, actor Actor, req dto.CreateWashRecordRequest) (*dto.WashRecordResponse, error) {
	ws, err := s.catalog.FindByID(ctx, req.ServiceTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}

	empID, empName := actor.ID, actor.Name
	if req.EmployeeID != nil && *req.EmployeeID != actor.ID {
		emp, err := s.employees.FindByID(ctx, *req.EmployeeID)
		if err != nil || !emp.Active {
			return nil, ErrInvalidReference
		}
		empID, empName = emp.ID, emp.Name
	}

	w := &model.WashRecord{
		Plate:         strings.ToUpper(strings.TrimSpace(req.Plate)),
		VehicleModel:  req.VehicleModel,
		ServiceTypeID: ws.ID,
		ServiceName:   ws.Name,
		Value:         ws.Price,
		EmployeeID:    empID,
		EmployeeName:  empName,
		Date:          s.now(),
	}
	if err := s.records.Create(ctx, w); err != nil {
		return nil, err
	}
	return washRecordToResponse(w, actor.Role), nil
}

func (s *washService) List(ctx context.Context, actor Actor) ([]dto.WashRecordResponse, error) {
	list, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WashRecordResponse, 0, len(list))
	for i := range list {
		out = append(out, *washRecordToResponse(&list[i], actor.Role))
	}
	return out, nil
}

// Finalize marks the wash done and books its value as income, both in one
// DB transaction. Only the washer who recorded it or a manager may do it,
// and only while the register is open.
func (s *washService) Finalize(ctx context.Context, actor Actor, id uint, req dto.CompleteWashRequest) (*dto.WashRecordResponse, error) {
	w, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	supervisor := actor.Role == model.RoleManager || actor.Role == model.RoleAdmin
	if w.EmployeeID != actor.ID && !supervisor {
		return nil, ErrNotWashOwner
	}
	if w.Finalized {
		return nil, ErrAlreadyFinalized
	}
	if _, err := s.gate.openSession(ctx); err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = "cash"
	}
	now := s.now()
	ref := model.RefWash

	err = runTx(ctx, s.records.DB(), func(tx *gorm.DB) error {
		flipped, err := s.records.MarkFinalized(ctx, tx, w.ID, now)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyFinalized
		}
		return s.gate.record(ctx, tx, &model.Transaction{
			Description:   fmt.Sprintf("Lavagem %s - %s", w.ServiceName, w.Plate),
			Type:          model.TxIncome,
			Amount:        w.Value,
			Category:      washCategory,
			Date:          now,
			PaymentMethod: method,
			ReferenceID:   &w.ID,
			ReferenceType: &ref,
		})
	})
	if err != nil {
		return nil, err
	}

	w.Finalized = true
	w.FinalizedAt = &now
	s.audit.Record(ctx, actor.Name, model.ActionWashFinalized,
		fmt.Sprintf("Lavagem %s finalizada (%s)", w.Plate, w.ServiceName),
		map[string]any{"wash_id": w.ID, "value": w.Value.StringFixed(2)})
	log.Info().Uint("wash_id", w.ID).Str("by", actor.Name).Msg("wash finalized")
	return washRecordToResponse(w, actor.Role), nil
}

func washServiceToResponse(ws *model.WashService) *dto.WashServiceResponse {
	return &dto.WashServiceResponse{ID: ws.ID, Name: ws.Name, Price: ws.Price}
}

func washRecordToResponse(w *model.WashRecord, role string) *dto.WashRecordResponse {
	r := &dto.WashRecordResponse{
		ID:            w.ID,
		Plate:         w.Plate,
		VehicleModel:  w.VehicleModel,
		ServiceTypeID: w.ServiceTypeID,
		ServiceName:   w.ServiceName,
		EmployeeID:    w.EmployeeID,
		EmployeeName:  w.EmployeeName,
		Date:          w.Date,
		Finalized:     w.Finalized,
		FinalizedAt:   w.FinalizedAt,
	}
	if model.CanSeePrices(role) {
		v := w.Value
		r.Value = &v
	}
	return r
}
