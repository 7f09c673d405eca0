package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InvoiceJobPayload is pushed to QueueInvoice by the emission endpoint.
type InvoiceJobPayload struct {
	OrderID     uint   `json:"order_id"`
	RequestedBy string `json:"requested_by"`
}

// EmissionCompleter finishes an emission: authorizes, persists the invoice
// and its income entry, and clears the in-flight marker.
type EmissionCompleter interface {
	CompleteEmission(ctx context.Context, orderID uint, requestedBy string) error
}

type InvoiceWorker struct {
	completer EmissionCompleter
	rdb       *redis.Client
}

func NewInvoiceWorker(c EmissionCompleter, rdb *redis.Client) *InvoiceWorker {
	return &InvoiceWorker{completer: c, rdb: rdb}
}

// Process runs one emission. Failures are dead-lettered, never retried.
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var p InvoiceJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueInvoice, JobInvoice, raw, "invalid payload: "+err.Error())
		return
	}
	if err := w.completer.CompleteEmission(ctx, p.OrderID, p.RequestedBy); err != nil {
		log.Error().Err(err).Uint("order_id", p.OrderID).Msg("invoice_worker: emission failed")
		SendToDLQ(ctx, w.rdb, QueueInvoice, JobInvoice, raw, err.Error())
		return
	}
	log.Info().Uint("order_id", p.OrderID).Msg("invoice_worker: invoice authorized")
}
