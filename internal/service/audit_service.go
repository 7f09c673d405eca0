package service

import (
	"context"
	"encoding/json"
	"time"

	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// AuditService appends to the system log. Record never fails the caller;
// a lost audit line is logged and the business operation stands.
type AuditService interface {
	Record(ctx context.Context, user, action, details string, metadata map[string]any)
	List(ctx context.Context, action string, page, limit int) (*dto.SystemLogListResponse, error)
}

type auditService struct {
	repo repository.SystemLogRepository
	now  func() time.Time
}

func NewAuditService(repo repository.SystemLogRepository) AuditService {
	return &auditService{repo: repo, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, user, action, details string, metadata map[string]any) {
	entry := &model.SystemLog{
		Timestamp: s.now(),
		User:      user,
		Action:    action,
		Details:   details,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Str("user", user).Msg("audit: failed to record entry")
	}
}

func (s *auditService) List(ctx context.Context, action string, page, limit int) (*dto.SystemLogListResponse, error) {
	logs, total, err := s.repo.List(ctx, action, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SystemLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.SystemLogResponse{
			ID:        l.ID,
			Timestamp: l.Timestamp,
			User:      l.User,
			Action:    l.Action,
			Details:   l.Details,
			Metadata:  json.RawMessage(l.Metadata),
		})
	}
	if page < 1 {
		page = 1
	}
	return &dto.SystemLogListResponse{Data: out, Total: total, Page: page, Limit: limit}, nil
}
