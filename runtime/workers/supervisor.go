package workers

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/contract"
	"mention-relay/errors"
	"sync"
	"time"
)

var _ contract.ISupervisor = (*Supervisor)(nil)

// Supervisor keeps the relay workers alive.
// A worker returning nil is finished for good. An error or a panic restarts it
// after restartInterval, until the supervised context is cancelled.
// A Supervisor is meant to be Run once.
type Supervisor struct {
	mu              sync.Mutex
	cancel          context.CancelFunc
	stopped         bool
	restarts        map[string]int
	wg              sync.WaitGroup
	log             *slog.Logger
	workers         []contract.Worker
	restartInterval time.Duration
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{log: log, restartInterval: restartInterval, restarts: map[string]int{}}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every registered worker and blocks until all of them have returned.
// A Stop issued before Run makes it return as soon as the workers notice.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := s.bind(ctx)
	defer cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// bind derives the supervised context under the lock, so Stop never misses it.
func (s *Supervisor) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if s.stopped {
		cancel()
	}
	return supervisedCtx, cancel
}

// Start runs one worker in its own goroutine and restarts it on failure.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()
		for {
			if ctx.Err() != nil {
				s.log.Info("Worker stopped", "worker", name)
				return
			}

			err := s.runOnce(ctx, name, worker)
			if err == nil {
				s.log.Info("Worker finished", "worker", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "worker", name)
				return
			}

			restarts := s.recordRestart(name)
			s.log.Warn("Worker crashed, restarting",
				"worker", name, "restarts", restarts, "restart_in", s.restartInterval, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

// runOnce turns a panic into ErrWorkerPanic so one bad event cannot take the relay down.
func (s *Supervisor) runOnce(ctx context.Context, name string, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Worker panicked", "worker", name, "panic", r)
			err = fmt.Errorf("%w: %s: %v", errors.ErrWorkerPanic, name, r)
		}
	}()
	return worker.Run(ctx)
}

func (s *Supervisor) recordRestart(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restarts[name]++
	return s.restarts[name]
}

// Restarts reports how many times the named worker has been restarted.
func (s *Supervisor) Restarts(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts[name]
}

// Stop cancels every worker. It is safe to call before, during or after Run.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
}
