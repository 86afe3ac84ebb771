// Package roster owns the in-memory roster document and keeps it in sync with the store.
// Every committed mutation is saved before the call returns (write-through).
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/domain"
	"mention-relay/errors"
	"mention-relay/repositories"
	"sync"
	"time"
)

// Observation is what an inbound message tells us about its sender.
type Observation struct {
	ChatID        domain.ChatID
	ChatTitle     string
	ParticipantID domain.ParticipantID
	Handle        string
	Name          string
	At            time.Time
}

type Roster struct {
	mu     sync.Mutex
	doc    *domain.Document
	store  repositories.IRosterStore
	policy domain.Policy
	log    *slog.Logger
}

// NewRoster builds the roster from whatever the store holds.
func NewRoster(ctx context.Context, store repositories.IRosterStore, policy domain.Policy, log *slog.Logger) (*Roster, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	if doc == nil {
		doc = domain.NewDocument()
	}
	return &Roster{doc: doc, store: store, policy: policy, log: log}, nil
}

func (r *Roster) Policy() domain.Policy { return r.policy }

// ObserveParticipant registers the participant on first sight and refreshes
// its details afterwards. JoinedAt and Subscribed are never touched once set.
func (r *Roster) ObserveParticipant(ctx context.Context, obs Observation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.policy.RosterKey(obs.ChatID)
	prev, existed := r.backup(key)

	title := obs.ChatTitle
	if r.policy.Scope == domain.ScopeGlobal {
		title = ""
	}
	chat := r.doc.Chat(key, title)
	chat.Title = title

	participant, known := chat.Participants[obs.ParticipantID]
	if !known {
		participant = domain.Participant{
			ID:         obs.ParticipantID,
			JoinedAt:   obs.At.UTC(),
			Subscribed: r.policy.DefaultSubscribed(),
		}
	}
	participant.Handle = obs.Handle
	participant.Name = obs.Name
	chat.Participants[obs.ParticipantID] = participant

	if known && !r.policy.PersistOnEveryObserve {
		return false, nil
	}
	if err := r.commit(ctx, key, prev, existed); err != nil {
		return false, err
	}
	if !known {
		r.log.Info("Registered new participant",
			"chat_id", key, "participant_id", obs.ParticipantID,
			"handle", obs.Handle, "name", obs.Name)
	}
	return !known, nil
}

// SetSubscription changes the opt-in flag. Nothing is saved when the value is already in place.
func (r *Roster) SetSubscription(ctx context.Context, chatID domain.ChatID, id domain.ParticipantID, value bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.policy.RosterKey(chatID)
	chat, ok := r.doc.Chats[key]
	if !ok {
		return false, fmt.Errorf("%w: %s in chat %s", errors.ErrParticipantNotFound, id, key)
	}
	participant, ok := chat.Participants[id]
	if !ok {
		return false, fmt.Errorf("%w: %s in chat %s", errors.ErrParticipantNotFound, id, key)
	}
	if participant.Subscribed == value {
		return false, nil
	}

	prev, existed := r.backup(key)
	participant.Subscribed = value
	chat.Participants[id] = participant
	if err := r.commit(ctx, key, prev, existed); err != nil {
		return false, err
	}
	r.log.Info("Subscription changed", "chat_id", key, "participant_id", id, "subscribed", value)
	return true, nil
}

// RemoveParticipant forgets the participant. Unknown participants are a no-op.
func (r *Roster) RemoveParticipant(ctx context.Context, chatID domain.ChatID, id domain.ParticipantID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.policy.RosterKey(chatID)
	chat, ok := r.doc.Chats[key]
	if !ok {
		return false, nil
	}
	if _, ok = chat.Participants[id]; !ok {
		return false, nil
	}

	prev, existed := r.backup(key)
	delete(chat.Participants, id)
	if err := r.commit(ctx, key, prev, existed); err != nil {
		return false, err
	}
	r.log.Info("Participant removed", "chat_id", key, "participant_id", id)
	return true, nil
}

// Snapshot returns a copy of the chat's participants sorted by id.
func (r *Roster) Snapshot(chatID domain.ChatID) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.doc.Chats[r.policy.RosterKey(chatID)]
	if !ok {
		return nil
	}
	return chat.Sorted()
}

func (r *Roster) Participant(chatID domain.ChatID, id domain.ParticipantID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.doc.Chats[r.policy.RosterKey(chatID)]
	if !ok {
		return domain.Participant{}, false
	}
	p, ok := chat.Participants[id]
	return p, ok
}

// Document returns a deep copy of the whole roster.
func (r *Roster) Document() *domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Clone()
}

// Flush saves the current document, picking up detail refreshes that were not persisted on their own.
func (r *Roster) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, r.doc); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrPersistFailed, err)
	}
	return nil
}

func (r *Roster) backup(key domain.ChatID) (*domain.ChatRoster, bool) {
	chat, ok := r.doc.Chats[key]
	if !ok {
		return nil, false
	}
	return chat.Clone(), true
}

// commit saves the document. On failure the chat is restored to its previous
// state so memory never runs ahead of what is durable.
func (r *Roster) commit(ctx context.Context, key domain.ChatID, prev *domain.ChatRoster, existed bool) error {
	if err := r.store.Save(ctx, r.doc); err != nil {
		if existed {
			r.doc.Chats[key] = prev
		} else {
			delete(r.doc.Chats, key)
		}
		return fmt.Errorf("%w: %w", errors.ErrPersistFailed, err)
	}
	return nil
}
