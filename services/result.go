package services

import (
	"mention-relay/domain"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeIgnored             Outcome = "ignored"
	OutcomeObserved            Outcome = "observed"
	OutcomeSubscribed          Outcome = "subscribed"
	OutcomeAlreadySubscribed   Outcome = "already_subscribed"
	OutcomeUnsubscribed        Outcome = "unsubscribed"
	OutcomeAlreadyUnsubscribed Outcome = "already_unsubscribed"
	OutcomeBroadcast           Outcome = "broadcast"
	OutcomeNobodyToMention     Outcome = "nobody_to_mention"
	OutcomeRemoved             Outcome = "removed"
)

// Result is what handling one inbound event produced.
// A non-nil Err marks a fault; the dispatch loop logs it and moves on.
type Result struct {
	EventID       uuid.UUID
	Kind          string
	ChatID        domain.ChatID
	ParticipantID domain.ParticipantID
	Registered    bool
	Outcome       Outcome
	Mentions      int
	Err           error
}

func (r Result) Failed() bool { return r.Err != nil }

// LogAttrs returns the result as slog key/value pairs.
func (r Result) LogAttrs() []any {
	attrs := []any{
		"event_id", r.EventID,
		"kind", r.Kind,
		"chat_id", r.ChatID,
		"participant_id", r.ParticipantID,
		"outcome", r.Outcome,
	}
	if r.Mentions > 0 {
		attrs = append(attrs, "mentions", r.Mentions)
	}
	if r.Err != nil {
		attrs = append(attrs, "error", r.Err)
	}
	return attrs
}
