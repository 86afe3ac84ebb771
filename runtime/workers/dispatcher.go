package workers

import (
	"context"
	"log/slog"
	"mention-relay/contract"
	"mention-relay/domain/event"
	"mention-relay/services"

	"github.com/google/uuid"
)

// Ensure *DispatcherWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*DispatcherWorker)(nil)

// DispatcherWorker consumes inbound events one at a time, so two events of the
// same chat are never handled concurrently. A faulty event is logged and skipped.
type DispatcherWorker struct {
	log     *slog.Logger
	events  <-chan event.Inbound
	handler services.IRelayService
	dedup   *Deduplicator
	results chan<- services.Result
}

func NewDispatcherWorker(log *slog.Logger, events <-chan event.Inbound,
	handler services.IRelayService, dedup *Deduplicator) *DispatcherWorker {
	return &DispatcherWorker{log: log, events: events, handler: handler, dedup: dedup}
}

// WithResults publishes every result on the channel, dropping them when nobody reads.
func (w *DispatcherWorker) WithResults(results chan<- services.Result) *DispatcherWorker {
	w.results = results
	return w
}

func (w *DispatcherWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping dispatcher")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel is closed")
				return nil
			}
			res := w.Process(ctx, evt)
			if w.results != nil {
				select {
				case w.results <- res:
				default:
					w.log.Debug("Result lost")
				}
			}
		}
	}
}

func (w *DispatcherWorker) Process(ctx context.Context, evt event.Inbound) services.Result {
	if msg, ok := evt.(event.MessageReceived); ok && w.dedup != nil && msg.MessageID != "" {
		if w.dedup.Seen(string(msg.ChatID) + "/" + msg.MessageID) {
			w.log.Warn("Duplicate delivery dropped", "chat_id", msg.ChatID, "message_id", msg.MessageID)
			return services.Result{
				EventID:       uuid.New(),
				Kind:          msg.Kind(),
				ChatID:        msg.ChatID,
				ParticipantID: msg.SenderID,
				Outcome:       services.OutcomeIgnored,
			}
		}
	}

	res := w.handler.Handle(ctx, evt)
	if res.Failed() {
		w.log.Error("Event handling failed", res.LogAttrs()...)
		return res
	}
	w.log.Debug("Event handled", res.LogAttrs()...)
	return res
}
