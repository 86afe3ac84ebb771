// Package domain contains core concepts of the mention relay.
// This file defines Participant entities and the chat rosters that own them.
// No runtime, network, or transport logic should be added here.
package domain

import (
	"sort"
	"time"
)

type ChatID string

type ParticipantID string

// GlobalChatID is the single roster key used when the policy folds every chat into one scope.
const GlobalChatID ChatID = "global"

// Participant is a user known within a chat.
// JoinedAt is set once on first sight and never overwritten.
type Participant struct {
	ID         ParticipantID
	Handle     string
	Name       string
	JoinedAt   time.Time
	Subscribed bool
}

// ChatRoster is the per-chat record of every known participant.
type ChatRoster struct {
	ID           ChatID
	Title        string
	Participants map[ParticipantID]Participant
}

func NewChatRoster(id ChatID, title string) *ChatRoster {
	return &ChatRoster{ID: id, Title: title, Participants: make(map[ParticipantID]Participant)}
}

// Sorted returns the participants ordered by id so iteration is reproducible.
func (c *ChatRoster) Sorted() []Participant {
	out := make([]Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *ChatRoster) Clone() *ChatRoster {
	cp := NewChatRoster(c.ID, c.Title)
	for id, p := range c.Participants {
		cp.Participants[id] = p
	}
	return cp
}

// Document is the whole persisted state: every chat roster keyed by chat id.
// Every key maps to a non-nil roster whose Participants map is never nil.
type Document struct {
	Chats map[ChatID]*ChatRoster
}

func NewDocument() *Document {
	return &Document{Chats: make(map[ChatID]*ChatRoster)}
}

// Clone returns a deep copy, used to hand a stable view to the persistence layer.
func (d *Document) Clone() *Document {
	cp := NewDocument()
	for id, c := range d.Chats {
		cp.Chats[id] = c.Clone()
	}
	return cp
}

// Chat returns the roster for the given id, creating it when absent.
func (d *Document) Chat(id ChatID, title string) *ChatRoster {
	c, ok := d.Chats[id]
	if !ok {
		c = NewChatRoster(id, title)
		d.Chats[id] = c
	}
	if c.Participants == nil {
		c.Participants = make(map[ParticipantID]Participant)
	}
	return c
}
