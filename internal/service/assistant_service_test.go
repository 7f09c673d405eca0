package service_test

import (
	"context"
	"errors"
	"testing"

	"christocar/internal/assistant"
	"christocar/internal/infra"
	"christocar/internal/service"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	answer string
	err    error
	calls  int
	prompt string
}

var _ assistant.Provider = (*stubProvider)(nil)

func (p *stubProvider) GetProviderName() string { return "stub" }

func (p *stubProvider) GenerateResponse(_ context.Context, systemPrompt, _ string) (string, error) {
	p.calls++
	p.prompt = systemPrompt
	return p.answer, p.err
}

func newAssistantSvc(p assistant.Provider, cb *infra.CircuitBreaker) service.AssistantService {
	orders, washes, txs := newStubOrderRepo(), newStubWashRecordRepo(), &stubTxRepo{}
	dash := service.NewDashboardService(orders, washes, txs)
	return service.NewAssistantService(p, cb, dash, orders, washes, "Auto Center Christo Car")
}

func TestAsk_NoProviderConfigured(t *testing.T) {
	resp := newAssistantSvc(nil, nil).Ask(context.Background(), "Quanto faturamos hoje?")
	assert.Equal(t, "Erro: Chave de API não configurada.", resp.Answer)
	assert.Equal(t, "fallback", resp.Source)
}

func TestAsk_ProviderError(t *testing.T) {
	p := &stubProvider{err: errors.New("503")}
	resp := newAssistantSvc(p, nil).Ask(context.Background(), "Quantas OS abertas?")
	assert.Equal(t, "Desculpe, ocorreu um erro ao consultar o assistente inteligente.", resp.Answer)
	assert.Equal(t, "fallback", resp.Source)
}

func TestAsk_Success(t *testing.T) {
	p := &stubProvider{answer: "Hoje há 0 OS ativas."}
	resp := newAssistantSvc(p, infra.NewCircuitBreaker("ai", infra.DefaultCBConfig())).Ask(context.Background(), "Quantas OS abertas?")
	assert.Equal(t, "Hoje há 0 OS ativas.", resp.Answer)
	assert.Equal(t, "stub", resp.Source)
	assert.Contains(t, p.prompt, "Auto Center Christo Car")
	assert.Contains(t, p.prompt, "stats_calendar")
}

func TestAsk_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	svc := newAssistantSvc(p, infra.NewCircuitBreaker("ai", infra.CircuitBreakerConfig{FailureThreshold: 2}))

	for i := 0; i < 4; i++ {
		resp := svc.Ask(context.Background(), "oi")
		assert.Equal(t, "fallback", resp.Source)
	}
	assert.Equal(t, 2, p.calls, "open breaker short-circuits the provider")
}
