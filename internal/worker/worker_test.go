package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	calls []uint
	err   error
}

func (s *stubCompleter) CompleteEmission(_ context.Context, orderID uint, _ string) error {
	s.calls = append(s.calls, orderID)
	return s.err
}

type stubMailer struct{ sent []string }

func (m *stubMailer) SendInvoice(to, _, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestInvoiceWorker_ProcessCallsCompleterOnce(t *testing.T) {
	c := &stubCompleter{}
	w := NewInvoiceWorker(c, nil)
	raw, _ := json.Marshal(InvoiceJobPayload{OrderID: 12, RequestedBy: "Ana Pereira"})

	w.Process(context.Background(), raw)
	assert.Equal(t, []uint{12}, c.calls)
}

func TestInvoiceWorker_FailureIsNotRetried(t *testing.T) {
	c := &stubCompleter{err: errors.New("authority down")}
	w := NewInvoiceWorker(c, nil)
	raw, _ := json.Marshal(InvoiceJobPayload{OrderID: 3})

	// nil redis: the DLQ push is logged and dropped
	w.Process(context.Background(), raw)
	assert.Len(t, c.calls, 1)
}

func TestProcessJob_RoutesByType(t *testing.T) {
	c := &stubCompleter{}
	m := &stubMailer{}
	h := Handlers{Invoice: NewInvoiceWorker(c, nil), Email: NewEmailWorker(m, nil)}

	inv, _ := json.Marshal(InvoiceJobPayload{OrderID: 5})
	job, _ := json.Marshal(Job{Type: JobInvoice, Payload: inv, EnqueuedAt: time.Now()})
	processJob(context.Background(), h, QueueInvoice, string(job))

	mail, _ := json.Marshal(EmailJobPayload{ToEmail: "joao@example.com"})
	job, _ = json.Marshal(Job{Type: JobEmail, Payload: mail})
	processJob(context.Background(), h, QueueEmail, string(job))

	assert.Equal(t, []uint{5}, c.calls)
	assert.Equal(t, []string{"joao@example.com"}, m.sent)
}

func TestDispatcher_NilIsUnavailable(t *testing.T) {
	var d *Dispatcher
	ctx := context.Background()

	require.ErrorIs(t, d.EnqueueInvoice(ctx, InvoiceJobPayload{OrderID: 1}), ErrQueueUnavailable)
	_, err := d.MarkInFlight(ctx, 1, time.Minute)
	require.ErrorIs(t, err, ErrQueueUnavailable)
	assert.ErrorIs(t, NewDispatcher(nil).ClearInFlight(ctx, 1), ErrQueueUnavailable)
}
