// Package mention turns a chat roster into the ordered list of participants to ping.
package mention

import (
	"mention-relay/domain"

	"github.com/samber/lo"
)

type SnapshotProvider interface {
	Snapshot(chatID domain.ChatID) []domain.Participant
}

type Resolver struct {
	roster SnapshotProvider
	policy domain.Policy
}

func NewResolver(roster SnapshotProvider, policy domain.Policy) Resolver {
	return Resolver{roster: roster, policy: policy}
}

// Resolve lists everyone mentionable in the chat except the participant who triggered the broadcast.
// Order follows the snapshot, which is sorted by participant id.
func (r Resolver) Resolve(chatID domain.ChatID, triggeredBy domain.ParticipantID) []domain.MentionToken {
	included := lo.Filter(r.roster.Snapshot(chatID), func(p domain.Participant, _ int) bool {
		return p.ID != triggeredBy && r.policy.Mentionable(p)
	})
	return lo.Map(included, func(p domain.Participant, _ int) domain.MentionToken {
		return domain.TokenFor(p)
	})
}
