package service

import (
	"context"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, actor Actor, req dto.SettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo  repository.SettingsRepository
	audit AuditService
}

func NewSettingsService(repo repository.SettingsRepository, audit AuditService) SettingsService {
	return &settingsService{repo: repo, audit: audit}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToResponse(st), nil
}

func (s *settingsService) Update(ctx context.Context, actor Actor, req dto.SettingsRequest) (*dto.SettingsResponse, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.CompanyName != nil {
		st.CompanyName = *req.CompanyName
	}
	if req.ThemeColor != nil {
		st.ThemeColor = *req.ThemeColor
	}
	if req.MaintenanceMode != nil {
		st.MaintenanceMode = *req.MaintenanceMode
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.Name, model.ActionSettingsUpdated, "Configurações atualizadas", map[string]any{
		"company_name":     st.CompanyName,
		"theme_color":      st.ThemeColor,
		"maintenance_mode": st.MaintenanceMode,
	})
	return settingsToResponse(st), nil
}

func settingsToResponse(s *model.AppSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		CompanyName:     s.CompanyName,
		ThemeColor:      s.ThemeColor,
		MaintenanceMode: s.MaintenanceMode,
	}
}
