package event

import (
	"mention-relay/domain"
	"time"
)

// Inbound is any event the chat transport delivers to the relay.
type Inbound interface {
	Chat() domain.ChatID
	Kind() string
}

const (
	MessageReceivedKind   = "message_received"
	MembershipChangedKind = "membership_changed"
)

// MessageReceived is a text message observed in a chat.
// ReplyTarget optionally narrows where answers go inside the chat (a channel or thread).
type MessageReceived struct {
	MessageID    string
	ChatID       domain.ChatID `validate:"required"`
	ChatTitle    string
	ChatHandle   string
	SenderID     domain.ParticipantID `validate:"required"`
	SenderHandle string
	SenderName   string
	ReplyTarget  string
	Text         string
	At           time.Time
}

func (m MessageReceived) Chat() domain.ChatID { return m.ChatID }
func (m MessageReceived) Kind() string        { return MessageReceivedKind }

// Title falls back to the chat handle, then to "Private".
func (m MessageReceived) Title() string {
	switch {
	case m.ChatTitle != "":
		return m.ChatTitle
	case m.ChatHandle != "":
		return m.ChatHandle
	default:
		return "Private"
	}
}

type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsDeparture reports whether the participant is no longer in the chat.
func (s MemberStatus) IsDeparture() bool {
	return s == StatusLeft || s == StatusKicked
}

// MembershipChanged reports a new membership status for one participant of a chat.
type MembershipChanged struct {
	ChatID    domain.ChatID        `validate:"required"`
	SubjectID domain.ParticipantID `validate:"required"`
	NewStatus MemberStatus         `validate:"required"`
	At        time.Time
}

func (m MembershipChanged) Chat() domain.ChatID { return m.ChatID }
func (m MembershipChanged) Kind() string        { return MembershipChangedKind }
