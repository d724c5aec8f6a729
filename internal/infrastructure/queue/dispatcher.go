package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/core/domain"
	"github.com/mb-platform/user-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// AuditDispatcher records account events asynchronously. Events are sharded
// across a fixed set of workers by the subject name so the audit trail of a
// single account stays ordered.
type AuditDispatcher struct {
	workers []chan domain.AccountEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AccountEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccountEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker responsible for its subject.
// When the worker's buffer is full the event is dropped with a warning:
// the audit trail must never stall a request.
func (d *AuditDispatcher) Record(event domain.AccountEvent) {
	select {
	case d.workers[d.shardIndex(event.Name)] <- event:
	default:
		d.log.Warn().
			Str("name", event.Name).
			Str("action", string(event.Action)).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a subject name deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccountEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.InsertEvent(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("name", event.Name).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
