package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderService owns the service-order (OS) lifecycle. Every edit loads the
// stored order, applies the ledger operation to a clone, and persists the
// clone wholesale so totals are always recomputed from lines.
type OrderService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (*dto.OrderResponse, error)
	List(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Replace(ctx context.Context, actor Actor, id uint, req dto.SaveOrderRequest) (*dto.OrderResponse, error)

	AddService(ctx context.Context, actor Actor, id uint, req dto.ServiceLineRequest) (*dto.OrderResponse, error)
	UpdateService(ctx context.Context, actor Actor, id uint, idx int, req dto.ServiceLineRequest) (*dto.OrderResponse, error)
	RemoveService(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error)
	ToggleService(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error)

	AddPart(ctx context.Context, actor Actor, id uint, req dto.PartLineRequest) (*dto.OrderResponse, error)
	UpdatePart(ctx context.Context, actor Actor, id uint, idx int, req dto.PartLineRequest) (*dto.OrderResponse, error)
	RemovePart(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error)

	SetStatus(ctx context.Context, actor Actor, id uint, status string) (*dto.OrderResponse, error)
}

type orderService struct {
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	vehicles repository.VehicleRepository
	parts    repository.PartRepository
	audit    AuditService
	now      func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	clients repository.ClientRepository,
	vehicles repository.VehicleRepository,
	parts repository.PartRepository,
	audit AuditService,
) OrderService {
	return &orderService{orders: orders, clients: clients, vehicles: vehicles, parts: parts, audit: audit, now: time.Now}
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := s.checkVehicle(ctx, req.ClientID, req.VehicleID); err != nil {
		return nil, err
	}
	o := model.NewServiceOrder(req.ClientID, req.VehicleID, s.now())
	o.Observations = req.Observations

	if err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.Create(ctx, tx, o)
	}); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.audit.Record(ctx, actor.Name, model.ActionOrderSaved, "OS criada: "+o.Number, map[string]any{"order_id": o.ID})
	log.Info().Uint("order_id", o.ID).Str("number", o.Number).Msg("service order created")
	return orderToResponse(o, actor.Role), nil
}

// checkVehicle requires the vehicle to exist and belong to the client.
func (s *orderService) checkVehicle(ctx context.Context, clientID, vehicleID uint) error {
	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidReference
		}
		return err
	}
	if v.ClientID != clientID {
		return ErrInvalidReference
	}
	return nil
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, actor Actor, id uint) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return orderToResponse(o, actor.Role), nil
}

func (s *orderService) List(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i], actor.Role))
	}
	return &dto.OrderListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Replace ───────────────────────────────────────────────────────────────────
// Last write wins: the request body becomes the order, lines included.

func (s *orderService) Replace(ctx context.Context, actor Actor, id uint, req dto.SaveOrderRequest) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		if req.ClientID != o.ClientID || req.VehicleID != o.VehicleID {
			if err := s.checkVehicle(ctx, req.ClientID, req.VehicleID); err != nil {
				return err
			}
		}
		if err := o.SetStatus(req.Status); err != nil {
			return err
		}
		o.ClientID, o.VehicleID, o.Observations = req.ClientID, req.VehicleID, req.Observations

		o.Services = make([]model.ServiceLine, 0, len(req.Services))
		for _, l := range req.Services {
			sl := serviceLineFromRequest(l)
			if sl.Status == "" {
				sl.Status = model.LinePending
			}
			o.Services = append(o.Services, sl)
		}
		o.Parts = make([]model.PartLine, 0, len(req.Parts))
		for _, l := range req.Parts {
			pl, err := s.partLineFromRequest(ctx, l)
			if err != nil {
				return err
			}
			o.Parts = append(o.Parts, pl)
		}
		o.Recalculate()
		return nil
	})
}

// ── Line items ────────────────────────────────────────────────────────────────

func (s *orderService) AddService(ctx context.Context, actor Actor, id uint, req dto.ServiceLineRequest) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		o.AddServiceLine(serviceLineFromRequest(req))
		return nil
	})
}

func (s *orderService) UpdateService(ctx context.Context, actor Actor, id uint, idx int, req dto.ServiceLineRequest) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		return o.UpdateServiceLine(idx, serviceLineFromRequest(req))
	})
}

func (s *orderService) RemoveService(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		return o.RemoveServiceLine(idx)
	})
}

func (s *orderService) ToggleService(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		return o.ToggleServiceDone(idx)
	})
}

func (s *orderService) AddPart(ctx context.Context, actor Actor, id uint, req dto.PartLineRequest) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		pl, err := s.partLineFromRequest(ctx, req)
		if err != nil {
			return err
		}
		o.AddPartLine(pl)
		return nil
	})
}

func (s *orderService) UpdatePart(ctx context.Context, actor Actor, id uint, idx int, req dto.PartLineRequest) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		pl, err := s.partLineFromRequest(ctx, req)
		if err != nil {
			return err
		}
		return o.UpdatePartLine(idx, pl)
	})
}

func (s *orderService) RemovePart(ctx context.Context, actor Actor, id uint, idx int) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		return o.RemovePartLine(idx)
	})
}

func (s *orderService) SetStatus(ctx context.Context, actor Actor, id uint, status string) (*dto.OrderResponse, error) {
	return s.edit(ctx, actor, id, func(o *model.ServiceOrder) error {
		return o.SetStatus(status)
	})
}

// edit loads, clones, mutates and replaces. The stored order is untouched
// when mutate fails.
func (s *orderService) edit(ctx context.Context, actor Actor, id uint, mutate func(o *model.ServiceOrder) error) (*dto.OrderResponse, error) {
	stored, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	o := stored.Clone()
	if err := mutate(o); err != nil {
		return nil, mapLineErr(err)
	}

	if err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.Replace(ctx, tx, o)
	}); err != nil {
		return nil, notFound(err)
	}

	s.audit.Record(ctx, actor.Name, model.ActionOrderSaved, "OS salva: "+o.Number, map[string]any{
		"order_id": o.ID,
		"status":   o.Status,
		"total":    o.Total.StringFixed(2),
	})
	return orderToResponse(o, actor.Role), nil
}

func serviceLineFromRequest(r dto.ServiceLineRequest) model.ServiceLine {
	return model.ServiceLine{
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Mechanic:    r.Mechanic,
		Status:      r.Status,
	}
}

// partLineFromRequest copies code, name and price from the catalog when a
// part_id is given; explicit fields are used as-is otherwise.
func (s *orderService) partLineFromRequest(ctx context.Context, r dto.PartLineRequest) (model.PartLine, error) {
	if r.PartID == nil {
		return model.PartLine{Code: r.Code, Name: r.Name, Price: r.Price, Quantity: r.Quantity}, nil
	}
	p, err := s.parts.FindByID(ctx, *r.PartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PartLine{}, ErrInvalidReference
		}
		return model.PartLine{}, err
	}
	return model.PartLine{Code: p.Code, Name: p.Name, Price: p.Price, Quantity: r.Quantity}, nil
}

func orderToResponse(o *model.ServiceOrder, role string) *dto.OrderResponse {
	r := &dto.OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		ClientID:     o.ClientID,
		VehicleID:    o.VehicleID,
		Date:         o.Date,
		Status:       o.Status,
		Services:     make([]dto.ServiceLineResponse, 0, len(o.Services)),
		Parts:        make([]dto.PartLineResponse, 0, len(o.Parts)),
		Observations: o.Observations,
	}
	total := o.Total
	r.Total = &total
	for _, l := range o.Services {
		price := l.Price
		r.Services = append(r.Services, dto.ServiceLineResponse{
			Description: l.Description, Price: &price, Quantity: l.Quantity, Mechanic: l.Mechanic, Status: l.Status,
		})
	}
	for _, l := range o.Parts {
		price := l.Price
		r.Parts = append(r.Parts, dto.PartLineResponse{Code: l.Code, Name: l.Name, Price: &price, Quantity: l.Quantity})
	}
	if !model.CanSeePrices(role) {
		dto.RedactOrder(r)
	}
	return r
}
