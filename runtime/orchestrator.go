// Package runtime wires the transport, the dispatch worker and the roster together.
// It orchestrates the relay without containing business logic or policy rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/contract"
	"mention-relay/runtime/workers"
	"mention-relay/services"
	"sync"
	"time"
)

const backlogThreshold = 0.8

// Flusher persists whatever the roster holds in memory.
type Flusher interface {
	Flush(ctx context.Context) error
}

type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	source     contract.EventSource
	relay      services.IRelayService
	flusher    Flusher
	dedup      *workers.Deduplicator
	backlog    time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, source contract.EventSource,
	relay services.IRelayService, flusher Flusher, dedupCapacity int) *Orchestrator {
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		source:     source,
		relay:      relay,
		flusher:    flusher,
		dedup:      workers.NewDeduplicator(dedupCapacity),
	}
}

// WithBacklogSampling adds a worker that warns when the inbound buffer fills up.
// A zero interval disables it.
func (o *Orchestrator) WithBacklogSampling(interval time.Duration) *Orchestrator {
	o.backlog = interval
	return o
}

// Start connects the transport and runs the supervised dispatcher in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done != nil {
		return fmt.Errorf("orchestrator already started")
	}

	if err := o.source.Start(ctx); err != nil {
		return fmt.Errorf("starting event source: %w", err)
	}

	events := o.source.Events()
	o.supervisor.Add(workers.NewDispatcherWorker(o.log, events, o.relay, o.dedup))
	if o.backlog > 0 {
		o.supervisor.Add(workers.NewBacklogWorker(o.log, events, o.backlog, backlogThreshold))
	}

	// The run context exists before the goroutine starts, so an immediate Stop always reaches the workers.
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		o.log.Info("Starting orchestrator and all supervised workers")
		o.supervisor.Run(runCtx)
	}(o.done)
	return nil
}

// Stop disconnects the transport, stops the workers and makes a final flush of the roster.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.log.Info("Requesting orchestrator shutdown")

	o.mu.Lock()
	done, cancel := o.done, o.cancel
	o.mu.Unlock()

	if err := o.source.Stop(); err != nil {
		o.log.Warn("Event source did not stop cleanly", "error", err)
	}
	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := o.flusher.Flush(ctx); err != nil {
		return fmt.Errorf("final roster flush: %w", err)
	}
	o.log.Info("Roster flushed")
	return nil
}
