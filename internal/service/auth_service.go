package service

import (
	"context"
	"fmt"
	"time"

	"christocar/internal/config"
	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const pinHashCost = 10

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	repo     repository.EmployeeRepository
	settings repository.SettingsRepository
	audit    AuditService
	cfg      *config.Config
}

func NewAuthService(repo repository.EmployeeRepository, settings repository.SettingsRepository, audit AuditService, cfg *config.Config) AuthService {
	return &authService{repo: repo, settings: settings, audit: audit, cfg: cfg}
}

// Login checks the employee PIN and issues a bearer token. While
// maintenance mode is on only managers and admins get in.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := s.repo.FindByID(ctx, req.EmployeeID)
	if err != nil || !emp.Active || !model.ValidRole(emp.Role) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PinHash), []byte(req.PIN)); err != nil {
		return nil, ErrInvalidCredentials
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if st.MaintenanceMode && emp.Role != model.RoleManager && emp.Role != model.RoleAdmin {
		return nil, ErrMaintenanceMode
	}

	token, err := s.generateToken(emp, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, emp.Name, model.ActionLogin, fmt.Sprintf("Login realizado (%s)", emp.Role), nil)

	modules := model.Modules(emp.Role)
	return &dto.LoginResponse{
		AccessToken:   token,
		TokenType:     "bearer",
		ExpiresIn:     s.cfg.JWTExpirationHours * 3600,
		Employee:      employeeToResponse(emp),
		DefaultModule: modules[0],
		Modules:       modules,
	}, nil
}

func (s *authService) generateToken(e *model.Employee, d time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"employee_id": e.ID,
		"name":        e.Name,
		"role":        e.Role,
		"exp":         now.Add(d).Unix(),
		"iat":         now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// HashPIN is shared by the registry service and cmd/genhash.
func HashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), pinHashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{ID: e.ID, Name: e.Name, Role: e.Role, Active: e.Active}
}
