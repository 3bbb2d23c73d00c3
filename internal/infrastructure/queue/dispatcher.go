package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/api/metrics"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// Dispatcher decouples publish requests from fan-out: intents are buffered in
// a bounded channel and consumed by a fixed set of workers.
type Dispatcher struct {
	jobs    chan domain.BroadcastIntent
	workers int
	service ports.BroadcastService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers workers and a queue of
// queueSize intents. Non-positive values fall back to the defaults.
func NewDispatcher(numWorkers, queueSize int, service ports.BroadcastService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = channelBuffer
	}
	return &Dispatcher{
		jobs:    make(chan domain.BroadcastIntent, queueSize),
		workers: numWorkers,
		service: service,
		log:     log,
	}
}

// Start launches the workers. Broadcasts run on a context detached from
// ctx's cancellation: once started, a fan-out runs to completion.
func (d *Dispatcher) Start(ctx context.Context) {
	runCtx := context.WithoutCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(runCtx, i)
	}
}

// Enqueue hands an intent to the workers without blocking. It returns false
// when the queue is full or already shut down.
func (d *Dispatcher) Enqueue(intent domain.BroadcastIntent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.BroadcastsDroppedTotal.Inc()
		return false
	}

	select {
	case d.jobs <- intent:
		metrics.BroadcastQueueDepth.Set(float64(len(d.jobs)))
		return true
	default:
		metrics.BroadcastsDroppedTotal.Inc()
		d.log.Warn().Str("title", intent.Title).Int("capacity", cap(d.jobs)).Msg("broadcast queue full")
		return false
	}
}

// Shutdown stops accepting intents and waits for queued and in-flight
// broadcasts to finish, or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for intent := range d.jobs {
		metrics.BroadcastQueueDepth.Set(float64(len(d.jobs)))
		report := d.service.Broadcast(ctx, intent)
		d.log.Debug().
			Int("worker_id", id).
			Str("title", intent.Title).
			Int("attempted", report.Attempted).
			Msg("broadcast dispatched")
	}
}
