package mention

import (
	"fmt"
	"mention-relay/domain"
	"strings"
)

// DefaultLinkFormat points a name link at the participant's profile.
const DefaultLinkFormat = "tg://user?id=%s"

// markdownEscaper protects labels from breaking the legacy Markdown link syntax.
var markdownEscaper = strings.NewReplacer("[", "\\[", "]", "\\]", "_", "\\_", "*", "\\*", "`", "\\`")

// MarkdownRenderer renders handles as @-mentions and everything else as inline links.
type MarkdownRenderer struct {
	LinkFormat string
}

func NewMarkdownRenderer(linkFormat string) MarkdownRenderer {
	if linkFormat == "" {
		linkFormat = DefaultLinkFormat
	}
	return MarkdownRenderer{LinkFormat: linkFormat}
}

func (m MarkdownRenderer) Mention(token domain.MentionToken) string {
	if token.Kind == domain.MentionHandle {
		return "@" + token.Label
	}
	link := fmt.Sprintf(m.LinkFormat, token.ParticipantID)
	return fmt.Sprintf("[%s](%s)", markdownEscaper.Replace(token.Label), link)
}
