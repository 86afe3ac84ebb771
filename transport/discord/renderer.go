package discord

import "mention-relay/domain"

// Renderer uses native user mentions. Discord resolves <@id> to the member's current
// display name itself, so the label chosen for the token is not part of the text.
type Renderer struct{}

func (Renderer) Mention(token domain.MentionToken) string {
	return "<@" + string(token.ParticipantID) + ">"
}
