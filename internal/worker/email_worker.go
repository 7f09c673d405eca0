package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// InvoiceMailer is satisfied by *infra.Mailer.
type InvoiceMailer interface {
	SendInvoice(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer InvoiceMailer
	rdb    *redis.Client
}

func NewEmailWorker(m InvoiceMailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: m, rdb: rdb}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var p EmailJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if p.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}
	if err := w.mailer.SendInvoice(p.ToEmail, p.Subject, p.Body, p.PDFPath); err != nil {
		log.Error().Err(err).Str("to", p.ToEmail).Msg("email_worker: send failed")
		SendToDLQ(ctx, w.rdb, QueueEmail, JobEmail, raw, err.Error())
		return
	}
	log.Info().Str("to", p.ToEmail).Msg("email_worker: invoice sent")
}
