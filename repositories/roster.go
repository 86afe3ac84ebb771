//go:generate go run go.uber.org/mock/mockgen -source=roster.go -destination=../mocks/mock_roster_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"mention-relay/domain"
	"mention-relay/errors"
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/jsonc"
)

// IRosterStore loads and saves the whole roster document.
// There are no partial updates: every Save rewrites the full document.
type IRosterStore interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// DiskUser is the persisted shape of a participant.
// The flat global layout only carries JoinedAt and Subscribed when the policy has subscriptions.
type DiskUser struct {
	Username   *string `json:"username"`
	FirstName  string  `json:"first_name"`
	JoinedAt   string  `json:"joined_at,omitempty"`
	Subscribed *bool   `json:"subscribed,omitempty"`
}

type DiskChat struct {
	ChatTitle string              `json:"chat_title"`
	Users     map[string]DiskUser `json:"users"`
}

type DiskDocument struct {
	Chats map[string]DiskChat `json:"chats"`
}

// Codec converts between the domain document and its JSON form.
// The layout depends on the policy: a global scope is stored as a flat
// participant map, a per-chat scope under a top-level "chats" key.
type Codec struct {
	policy domain.Policy
}

func NewCodec(policy domain.Policy) Codec {
	return Codec{policy: policy}
}

func (c Codec) Encode(doc *domain.Document) ([]byte, error) {
	if c.policy.Scope == domain.ScopeGlobal {
		users := map[string]DiskUser{}
		if chat, ok := doc.Chats[domain.GlobalChatID]; ok {
			for id, p := range chat.Participants {
				users[string(id)] = c.fromGlobalParticipant(p)
			}
		}
		return json.MarshalIndent(users, "", "  ")
	}

	disk := DiskDocument{Chats: make(map[string]DiskChat, len(doc.Chats))}
	for id, chat := range doc.Chats {
		users := make(map[string]DiskUser, len(chat.Participants))
		for pid, p := range chat.Participants {
			users[string(pid)] = c.fromParticipant(p)
		}
		disk.Chats[string(id)] = DiskChat{ChatTitle: chat.Title, Users: users}
	}
	return json.MarshalIndent(disk, "", "  ")
}

// Decode parses a stored document. Comments and trailing commas left by
// hand edits are tolerated. A per-chat document without a "chats" key is
// treated as empty rather than migrated.
func (c Codec) Decode(data []byte) (*domain.Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCorruptDocument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null document", errors.ErrCorruptDocument)
	}

	doc := domain.NewDocument()
	chatsRaw, hasChats := raw["chats"]

	if c.policy.Scope == domain.ScopeGlobal {
		if hasChats {
			return doc, nil
		}
		chat := doc.Chat(domain.GlobalChatID, "")
		for id, userRaw := range raw {
			var user DiskUser
			if err := json.Unmarshal(userRaw, &user); err != nil {
				return nil, fmt.Errorf("%w: participant %s: %w", errors.ErrCorruptDocument, id, err)
			}
			chat.Participants[domain.ParticipantID(id)] = c.toParticipant(id, user)
		}
		return doc, nil
	}

	if !hasChats {
		return doc, nil
	}
	var chats map[string]DiskChat
	if err := json.Unmarshal(chatsRaw, &chats); err != nil {
		return nil, fmt.Errorf("%w: chats: %w", errors.ErrCorruptDocument, err)
	}
	for id, diskChat := range chats {
		chat := doc.Chat(domain.ChatID(id), diskChat.ChatTitle)
		for pid, user := range diskChat.Users {
			chat.Participants[domain.ParticipantID(pid)] = c.toParticipant(pid, user)
		}
	}
	return doc, nil
}

// fromGlobalParticipant keeps the bare {username, first_name} shape unless
// there is opt-in state to remember.
func (c Codec) fromGlobalParticipant(p domain.Participant) DiskUser {
	if !c.policy.HasSubscriptions() {
		return DiskUser{Username: handlePtr(p.Handle), FirstName: p.Name}
	}
	return c.fromParticipant(p)
}

func (c Codec) fromParticipant(p domain.Participant) DiskUser {
	user := DiskUser{Username: handlePtr(p.Handle), FirstName: p.Name}
	if !p.JoinedAt.IsZero() {
		user.JoinedAt = p.JoinedAt.UTC().Format(time.RFC3339Nano)
	}
	if c.policy.HasSubscriptions() {
		user.Subscribed = lo.ToPtr(p.Subscribed)
	}
	return user
}

// toParticipant reads a stored user. A missing subscribed flag counts as subscribed,
// which is how documents written before opt-in existed were always interpreted.
func (c Codec) toParticipant(id string, user DiskUser) domain.Participant {
	p := domain.Participant{
		ID:         domain.ParticipantID(id),
		Handle:     lo.FromPtr(user.Username),
		Name:       user.FirstName,
		Subscribed: lo.FromPtrOr(user.Subscribed, true),
	}
	if user.JoinedAt != "" {
		if at, err := time.Parse(time.RFC3339Nano, user.JoinedAt); err == nil {
			p.JoinedAt = at.UTC()
		}
	}
	return p
}

func handlePtr(handle string) *string {
	if handle == "" {
		return nil
	}
	return lo.ToPtr(handle)
}
