package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"christocar/internal/config"
	"christocar/internal/dto"
	"christocar/internal/model"
	"christocar/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashService interface {
	Open(ctx context.Context, actor Actor, req dto.OpenCashRequest) (*dto.CashSessionResponse, error)
	Close(ctx context.Context, actor Actor, req dto.CloseCashRequest) (*dto.CashSessionResponse, error)
	// Current returns ErrNoOpenSession when the register is closed.
	Current(ctx context.Context) (*dto.CashSessionResponse, error)
	History(ctx context.Context, page, limit int) (*dto.CashSessionListResponse, error)
}

type cashService struct {
	repo  repository.CashRepository
	txs   repository.TransactionRepository
	audit AuditService
	scope string
	now   func() time.Time
}

// NewCashService: scope is config.ScopeLedger (every transaction ever
// recorded) or config.ScopeSession (only entries stamped with this session).
func NewCashService(repo repository.CashRepository, txs repository.TransactionRepository, audit AuditService, scope string) CashService {
	if scope != config.ScopeSession {
		scope = config.ScopeLedger
	}
	return &cashService{repo: repo, txs: txs, audit: audit, scope: scope, now: time.Now}
}

func (s *cashService) Open(ctx context.Context, actor Actor, req dto.OpenCashRequest) (*dto.CashSessionResponse, error) {
	if _, err := s.repo.FindOpen(ctx); err == nil {
		return nil, ErrSessionAlreadyOpen
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sess := &model.CashSession{
		Status:         model.SessionOpen,
		OpenedAt:       s.now(),
		OpenedBy:       actor.Name,
		OpeningBalance: req.OpeningBalance,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		// lost the race against a concurrent open: the partial unique index fired
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSessionAlreadyOpen
		}
		return nil, fmt.Errorf("open cash session: %w", err)
	}

	s.audit.Record(ctx, actor.Name, model.ActionCashOpen,
		"Caixa aberto com R$ "+sess.OpeningBalance.StringFixed(2), map[string]any{"session_id": sess.ID})
	log.Info().Uint("session_id", sess.ID).Str("by", actor.Name).Msg("cash session opened")
	return s.toResponse(sess), nil
}

// Close computes expected = opening + income − expense over the configured
// scope and difference = closing − expected.
func (s *cashService) Close(ctx context.Context, actor Actor, req dto.CloseCashRequest) (*dto.CashSessionResponse, error) {
	var (
		sess     *model.CashSession
		expected decimal.Decimal
	)
	closing := req.ClosingBalance
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sess, err = s.repo.LockOpen(ctx, tx, repository.LockUpdate)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenSession
			}
			return err
		}
		// ledger writers hold SHARE on this row; once we own it no entry
		// can be stamped with this session until the close commits
		expected, err = s.expectedBalance(ctx, tx, sess)
		if err != nil {
			return err
		}
		now := s.now()
		by := actor.Name
		diff := closing.Sub(expected)
		sess.Status = model.SessionClosed
		sess.ClosedAt = &now
		sess.ClosedBy = &by
		sess.ClosingBalance = &closing
		sess.ExpectedBalance = &expected
		sess.Difference = &diff
		if err := s.repo.Update(ctx, tx, sess); err != nil {
			return fmt.Errorf("close cash session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	diff := *sess.Difference
	s.audit.Record(ctx, actor.Name, model.ActionCashClose,
		fmt.Sprintf("Caixa fechado. Esperado R$ %s, informado R$ %s", expected.StringFixed(2), closing.StringFixed(2)),
		map[string]any{"session_id": sess.ID, "difference": diff.StringFixed(2), "scope": s.scope})
	log.Info().Uint("session_id", sess.ID).Str("difference", diff.StringFixed(2)).Msg("cash session closed")
	return s.toResponse(sess), nil
}

func (s *cashService) expectedBalance(ctx context.Context, tx *gorm.DB, sess *model.CashSession) (decimal.Decimal, error) {
	list, _, err := s.txs.ListTx(ctx, tx, repository.TransactionFilter{})
	if err != nil {
		return decimal.Zero, err
	}
	if s.scope == config.ScopeSession {
		scoped := list[:0:0]
		for _, t := range list {
			if t.SessionID != nil && *t.SessionID == sess.ID {
				scoped = append(scoped, t)
			}
		}
		list = scoped
	}
	income, expense := sumLedger(list)
	return sess.OpeningBalance.Add(income).Sub(expense), nil
}

func (s *cashService) Current(ctx context.Context) (*dto.CashSessionResponse, error) {
	sess, err := s.repo.FindOpen(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return s.toResponse(sess), nil
}

func (s *cashService) History(ctx context.Context, page, limit int) (*dto.CashSessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	list, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashSessionResponse, 0, len(list))
	for i := range list {
		out = append(out, *s.toResponse(&list[i]))
	}
	return &dto.CashSessionListResponse{Data: out, Total: total, Page: page, Limit: limit}, nil
}

func (s *cashService) toResponse(sess *model.CashSession) *dto.CashSessionResponse {
	r := &dto.CashSessionResponse{
		ID:              sess.ID,
		Status:          sess.Status,
		OpenedAt:        sess.OpenedAt,
		OpenedBy:        sess.OpenedBy,
		OpeningBalance:  sess.OpeningBalance,
		ClosedAt:        sess.ClosedAt,
		ClosedBy:        sess.ClosedBy,
		ClosingBalance:  sess.ClosingBalance,
		ExpectedBalance: sess.ExpectedBalance,
		Difference:      sess.Difference,
	}
	if sess.ExpectedBalance != nil {
		r.Scope = s.scope
	}
	return r
}
