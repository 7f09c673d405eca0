package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueInvoice = "jobs:invoice"
	QueueEmail   = "jobs:email"

	JobInvoice = "invoice"
	JobEmail   = "email"

	inFlightPrefix = "invoice:inflight:"
)

// ErrQueueUnavailable is returned by every Dispatcher method when Redis is
// not configured; callers take their local path instead.
var ErrQueueUnavailable = errors.New("job queue unavailable")

// Job is the envelope stored in the Redis lists.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Dispatcher pushes jobs with LPUSH; workers take them with BRPOP.
// A nil *Dispatcher is valid and reports ErrQueueUnavailable.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) available() bool { return d != nil && d.rdb != nil }

func (d *Dispatcher) EnqueueInvoice(ctx context.Context, p InvoiceJobPayload) error {
	return d.enqueue(ctx, QueueInvoice, JobInvoice, p)
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, p EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	if !d.available() {
		return ErrQueueUnavailable
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// MarkInFlight sets the per-order emission marker with SETNX. false means a
// marker already exists.
func (d *Dispatcher) MarkInFlight(ctx context.Context, orderID uint, ttl time.Duration) (bool, error) {
	if !d.available() {
		return false, ErrQueueUnavailable
	}
	return d.rdb.SetNX(ctx, inFlightKey(orderID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (d *Dispatcher) ClearInFlight(ctx context.Context, orderID uint) error {
	if !d.available() {
		return ErrQueueUnavailable
	}
	return d.rdb.Del(ctx, inFlightKey(orderID)).Err()
}

func (d *Dispatcher) IsInFlight(ctx context.Context, orderID uint) (bool, error) {
	if !d.available() {
		return false, ErrQueueUnavailable
	}
	n, err := d.rdb.Exists(ctx, inFlightKey(orderID)).Result()
	return n > 0, err
}

func inFlightKey(orderID uint) string { return fmt.Sprintf("%s%d", inFlightPrefix, orderID) }

// Handlers routes job types to their processors.
type Handlers struct {
	Invoice *InvoiceWorker
	Email   *EmailWorker
}

// StartWorkerPool launches n goroutines blocking on BRPOP over both queues.
// The returned WaitGroup is done once every worker has seen ctx cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, h Handlers, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	if rdb == nil {
		log.Warn().Msg("worker pool not started: redis unavailable")
		return &wg
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, h, id)
		}(i)
	}
	log.Info().Int("workers", n).Msg("worker pool started")
	return &wg
}

func runWorker(ctx context.Context, rdb *redis.Client, h Handlers, id int) {
	queues := []string{QueueInvoice, QueueEmail}
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		processJob(ctx, h, result[0], result[1])
	}
}

func processJob(ctx context.Context, h Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")

	switch job.Type {
	case JobInvoice:
		if h.Invoice != nil {
			h.Invoice.Process(ctx, job.Payload)
			return
		}
	case JobEmail:
		if h.Email != nil {
			h.Email.Process(ctx, job.Payload)
			return
		}
	}
	log.Error().Str("type", job.Type).Msg("no handler for job type")
}
