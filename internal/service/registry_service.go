package service

import (
	"context"
	"errors"
	"strings"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"gorm.io/gorm"
)

// RegistryService covers the "cadastros" screens: clients, vehicles, employees.
type RegistryService interface {
	CreateClient(ctx context.Context, req dto.ClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, id uint) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, search string) ([]dto.ClientResponse, error)
	UpdateClient(ctx context.Context, id uint, req dto.ClientRequest) (*dto.ClientResponse, error)
	DeleteClient(ctx context.Context, id uint) error

	CreateVehicle(ctx context.Context, req dto.VehicleRequest) (*dto.VehicleResponse, error)
	GetVehicle(ctx context.Context, id uint) (*dto.VehicleResponse, error)
	ListVehicles(ctx context.Context, clientID uint) ([]dto.VehicleResponse, error)
	UpdateVehicle(ctx context.Context, id uint, req dto.VehicleRequest) (*dto.VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id uint) error

	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id uint, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uint) error
}

type registryService struct {
	clients   repository.ClientRepository
	vehicles  repository.VehicleRepository
	employees repository.EmployeeRepository
}

func NewRegistryService(c repository.ClientRepository, v repository.VehicleRepository, e repository.EmployeeRepository) RegistryService {
	return &registryService{clients: c, vehicles: v, employees: e}
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *registryService) CreateClient(ctx context.Context, req dto.ClientRequest) (*dto.ClientResponse, error) {
	c := &model.Client{Name: req.Name, TaxID: req.TaxID, Phone: req.Phone, Email: req.Email}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *registryService) GetClient(ctx context.Context, id uint) (*dto.ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return clientToResponse(c), nil
}

func (s *registryService) ListClients(ctx context.Context, search string) ([]dto.ClientResponse, error) {
	list, err := s.clients.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for i := range list {
		out = append(out, *clientToResponse(&list[i]))
	}
	return out, nil
}

func (s *registryService) UpdateClient(ctx context.Context, id uint, req dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	c.Name, c.TaxID, c.Phone, c.Email = req.Name, req.TaxID, req.Phone, req.Email
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *registryService) DeleteClient(ctx context.Context, id uint) error {
	return notFound(s.clients.Delete(ctx, id))
}

// ── Vehicles ──────────────────────────────────────────────────────────────────

// CreateVehicle rejects plates for clients that do not exist.
func (s *registryService) CreateVehicle(ctx context.Context, req dto.VehicleRequest) (*dto.VehicleResponse, error) {
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	v := &model.Vehicle{ClientID: req.ClientID, Plate: normalizePlate(req.Plate), Model: req.Model, Brand: req.Brand}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	r := vehicleToResponse(v)
	return &r, nil
}

func (s *registryService) ListVehicles(ctx context.Context, clientID uint) ([]dto.VehicleResponse, error) {
	list, err := s.vehicles.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(list))
	for i := range list {
		out = append(out, vehicleToResponse(&list[i]))
	}
	return out, nil
}

func (s *registryService) GetVehicle(ctx context.Context, id uint) (*dto.VehicleResponse, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	r := vehicleToResponse(v)
	return &r, nil
}

func (s *registryService) UpdateVehicle(ctx context.Context, id uint, req dto.VehicleRequest) (*dto.VehicleResponse, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if req.ClientID != v.ClientID {
		if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
			return nil, ErrInvalidReference
		}
	}
	v.ClientID, v.Plate, v.Model, v.Brand = req.ClientID, normalizePlate(req.Plate), req.Model, req.Brand
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	r := vehicleToResponse(v)
	return &r, nil
}

func (s *registryService) DeleteVehicle(ctx context.Context, id uint) error {
	return notFound(s.vehicles.Delete(ctx, id))
}

// ── Employees ─────────────────────────────────────────────────────────────────

func (s *registryService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	hash, err := HashPIN(req.PIN)
	if err != nil {
		return nil, err
	}
	e := &model.Employee{Name: req.Name, Role: req.Role, PinHash: hash, Active: true}
	if err := s.employees.Create(ctx, e); err != nil {
		return nil, err
	}
	r := employeeToResponse(e)
	return &r, nil
}

func (s *registryService) ListEmployees(ctx context.Context, includeInactive bool) ([]dto.EmployeeResponse, error) {
	list, err := s.employees.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		out = append(out, employeeToResponse(&list[i]))
	}
	return out, nil
}

func (s *registryService) UpdateEmployee(ctx context.Context, id uint, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if req.Name != "" {
		e.Name = req.Name
	}
	if req.Role != "" {
		e.Role = req.Role
	}
	if req.PIN != "" {
		hash, err := HashPIN(req.PIN)
		if err != nil {
			return nil, err
		}
		e.PinHash = hash
	}
	if req.Active != nil {
		e.Active = *req.Active
	}
	if err := s.employees.Update(ctx, e); err != nil {
		return nil, err
	}
	r := employeeToResponse(e)
	return &r, nil
}

func (s *registryService) DeactivateEmployee(ctx context.Context, id uint) error {
	return notFound(s.employees.Deactivate(ctx, id))
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func normalizePlate(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	r := &dto.ClientResponse{ID: c.ID, Name: c.Name, TaxID: c.TaxID, Phone: c.Phone, Email: c.Email}
	for i := range c.Vehicles {
		r.Vehicles = append(r.Vehicles, vehicleToResponse(&c.Vehicles[i]))
	}
	return r
}

func vehicleToResponse(v *model.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{ID: v.ID, ClientID: v.ClientID, Plate: v.Plate, Model: v.Model, Brand: v.Brand}
}
