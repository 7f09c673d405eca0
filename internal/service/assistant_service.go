package service

import (
	"context"
	"strings"

	"christocar/internal/assistant"
	"christocar/internal/dto"
	"christocar/internal/infra"
	"christocar/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	answerNoKey = "Erro: Chave de API não configurada."
	answerError = "Desculpe, ocorreu um erro ao consultar o assistente inteligente."

	sourceFallback = "fallback"
	recentLimit    = 10
)

// AssistantService answers free-form questions about the business. It never
// returns an error to the caller: every failure becomes an apology answer.
type AssistantService interface {
	Ask(ctx context.Context, question string) dto.AskResponse
}

type assistantService struct {
	provider  assistant.Provider
	breaker   *infra.CircuitBreaker
	dashboard DashboardService
	orders    repository.OrderRepository
	washes    repository.WashRecordRepository
	company   string
}

// NewAssistantService accepts a nil provider (no API key configured).
func NewAssistantService(
	provider assistant.Provider,
	breaker *infra.CircuitBreaker,
	dashboard DashboardService,
	orders repository.OrderRepository,
	washes repository.WashRecordRepository,
	company string,
) AssistantService {
	return &assistantService{provider: provider, breaker: breaker, dashboard: dashboard, orders: orders, washes: washes, company: company}
}

type orderBrief struct {
	Number string `json:"number"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

type washBrief struct {
	Plate     string `json:"plate"`
	Service   string `json:"service"`
	Value     string `json:"value"`
	Finalized bool   `json:"finalized"`
}

func (s *assistantService) Ask(ctx context.Context, question string) dto.AskResponse {
	if s.provider == nil {
		return dto.AskResponse{Answer: answerNoKey, Source: sourceFallback}
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("assistant: snapshot failed")
		return dto.AskResponse{Answer: answerError, Source: sourceFallback}
	}
	prompt, err := assistant.SystemPrompt(s.company, snap)
	if err != nil {
		log.Error().Err(err).Msg("assistant: prompt build failed")
		return dto.AskResponse{Answer: answerError, Source: sourceFallback}
	}

	var answer string
	call := func(ctx context.Context) error {
		a, err := s.provider.GenerateResponse(ctx, prompt, question)
		answer = a
		return err
	}
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Warn().Err(err).Str("provider", s.provider.GetProviderName()).Msg("assistant: provider call failed")
		return dto.AskResponse{Answer: answerError, Source: sourceFallback}
	}
	return dto.AskResponse{Answer: answer, Source: s.provider.GetProviderName()}
}

func (s *assistantService) snapshot(ctx context.Context) (map[string]any, error) {
	stats, err := s.dashboard.Stats(ctx)
	if err != nil {
		return nil, err
	}
	scoped, err := s.dashboard.ScopedStats(ctx)
	if err != nil {
		return nil, err
	}
	orders, _, err := s.orders.List(ctx, dto.OrderFilter{Page: 1, Limit: recentLimit})
	if err != nil {
		return nil, err
	}
	washes, err := s.washes.List(ctx)
	if err != nil {
		return nil, err
	}

	ob := make([]orderBrief, 0, len(orders))
	for _, o := range orders {
		ob = append(ob, orderBrief{Number: o.Number, Status: o.Status, Total: o.Total.StringFixed(2)})
	}
	if len(washes) > recentLimit {
		washes = washes[:recentLimit]
	}
	wb := make([]washBrief, 0, len(washes))
	for _, w := range washes {
		wb = append(wb, washBrief{Plate: w.Plate, Service: w.ServiceName, Value: w.Value.StringFixed(2), Finalized: w.Finalized})
	}
	return map[string]any{
		"stats":          stats,
		"stats_calendar": scoped,
		"recent_orders":  ob,
		"recent_washes":  wb,
	}, nil
}
