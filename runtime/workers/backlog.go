package workers

import (
	"context"
	"log/slog"
	"mention-relay/domain/event"
	"time"
)

// BacklogWorker periodically samples how many inbound events wait in the transport buffer.
// Reading len and cap of a channel is non-blocking, so sampling never competes with the dispatcher.
type BacklogWorker struct {
	log       *slog.Logger
	events    <-chan event.Inbound
	interval  time.Duration
	threshold float64
}

// NewBacklogWorker warns whenever the buffer is filled above threshold (a ratio between 0 and 1).
func NewBacklogWorker(log *slog.Logger, events <-chan event.Inbound, interval time.Duration, threshold float64) *BacklogWorker {
	return &BacklogWorker{
		log:       log,
		events:    events,
		interval:  interval,
		threshold: threshold,
	}
}

func (w *BacklogWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping backlog sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample logs the current fill ratio and reports whether it crossed the threshold.
func (w *BacklogWorker) Sample() bool {
	capacity := cap(w.events)
	if capacity == 0 {
		return false
	}
	length := len(w.events)
	ratio := float64(length) / float64(capacity)
	if ratio >= w.threshold {
		w.log.Warn("Inbound event backlog is growing", "length", length, "capacity", capacity)
		return true
	}
	w.log.Debug("Inbound event backlog", "length", length, "capacity", capacity)
	return false
}
