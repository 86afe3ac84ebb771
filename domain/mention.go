package domain

type MentionKind int

const (
	// MentionHandle renders as an at-mention of the participant's handle.
	MentionHandle MentionKind = iota
	// MentionName renders as a link labelled with the display name.
	MentionName
	// MentionID renders as a link labelled with the bare participant id.
	MentionID
)

// MentionToken is a renderable reference to one participant.
type MentionToken struct {
	Kind          MentionKind
	ParticipantID ParticipantID
	Label         string
}

// TokenFor picks the best available label: handle, then name, then id.
func TokenFor(p Participant) MentionToken {
	switch {
	case p.Handle != "":
		return MentionToken{Kind: MentionHandle, ParticipantID: p.ID, Label: p.Handle}
	case p.Name != "":
		return MentionToken{Kind: MentionName, ParticipantID: p.ID, Label: p.Name}
	default:
		return MentionToken{Kind: MentionID, ParticipantID: p.ID, Label: string(p.ID)}
	}
}
