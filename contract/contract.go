//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"mention-relay/domain"
	"mention-relay/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type RenderMode string

const (
	RenderPlain        RenderMode = "plain"
	RenderRichMentions RenderMode = "rich_mentions"
)

// OutboundMessage is one message the relay wants delivered to a chat.
type OutboundMessage struct {
	ChatID      domain.ChatID
	ReplyTarget string
	Text        string
	Mode        RenderMode
}

// Sender is the outbound side of the chat transport. Failures are reported, never retried.
type Sender interface {
	Send(ctx context.Context, message OutboundMessage) error
}

// Renderer turns a mention token into transport-specific markup.
type Renderer interface {
	Mention(token domain.MentionToken) string
}

// EventSource is the inbound side of the chat transport.
// Events are published on the returned channel until the context is done.
type EventSource interface {
	Events() <-chan event.Inbound
	Start(ctx context.Context) error
	Stop() error
}
