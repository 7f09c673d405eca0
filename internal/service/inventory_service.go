package service

import (
	"context"
	"strings"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"
)

// InventoryService manages the parts catalog. Order part lines copy from
// here but never decrement Quantity.
type InventoryService interface {
	Create(ctx context.Context, req dto.PartRequest) (*dto.PartResponse, error)
	Get(ctx context.Context, id uint) (*dto.PartResponse, error)
	List(ctx context.Context, search string) ([]dto.PartResponse, error)
	Update(ctx context.Context, id uint, req dto.PartRequest) (*dto.PartResponse, error)
	Delete(ctx context.Context, id uint) error
}

type inventoryService struct {
	repo repository.PartRepository
}

func NewInventoryService(repo repository.PartRepository) InventoryService {
	return &inventoryService{repo: repo}
}

func (s *inventoryService) Create(ctx context.Context, req dto.PartRequest) (*dto.PartResponse, error) {
	p := &model.Part{Code: strings.ToUpper(req.Code), Name: req.Name, Price: req.Price, Quantity: req.Quantity}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return partToResponse(p), nil
}

func (s *inventoryService) Get(ctx context.Context, id uint) (*dto.PartResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return partToResponse(p), nil
}

func (s *inventoryService) List(ctx context.Context, search string) ([]dto.PartResponse, error) {
	list, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartResponse, 0, len(list))
	for i := range list {
		out = append(out, *partToResponse(&list[i]))
	}
	return out, nil
}

func (s *inventoryService) Update(ctx context.Context, id uint, req dto.PartRequest) (*dto.PartResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	p.Code, p.Name, p.Price, p.Quantity = strings.ToUpper(req.Code), req.Name, req.Price, req.Quantity
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return partToResponse(p), nil
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id))
}

func partToResponse(p *model.Part) *dto.PartResponse {
	return &dto.PartResponse{ID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price, Quantity: p.Quantity}
}
