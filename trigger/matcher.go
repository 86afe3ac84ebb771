// Package trigger finds command phrases anywhere inside a message body.
package trigger

import (
	"fmt"
	"mention-relay/errors"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Command int

const (
	None Command = iota
	Unsubscribe
	Subscribe
	Broadcast
)

func (c Command) String() string {
	switch c {
	case Unsubscribe:
		return "unsubscribe"
	case Subscribe:
		return "subscribe"
	case Broadcast:
		return "broadcast"
	default:
		return "none"
	}
}

// precedence is the order in which commands win when several phrases appear in one message.
var precedence = []Command{Unsubscribe, Subscribe, Broadcast}

// Phrases are the trigger substrings, matched case-insensitively.
type Phrases struct {
	Unsubscribe string
	Subscribe   string
	Broadcast   string
}

func DefaultPhrases() Phrases {
	return Phrases{Unsubscribe: "@unsubscribe", Subscribe: "@subscribe", Broadcast: "@everyone"}
}

type Matcher struct {
	machine *goahocorasick.Machine
	words   map[string]Command
	phrases Phrases
}

// NewMatcher builds a single Aho-Corasick automaton over every configured phrase.
func NewMatcher(phrases Phrases) (*Matcher, error) {
	byCommand := map[Command]string{
		Unsubscribe: phrases.Unsubscribe,
		Subscribe:   phrases.Subscribe,
		Broadcast:   phrases.Broadcast,
	}
	words := make(map[string]Command, len(byCommand))
	patterns := make([][]rune, 0, len(byCommand))
	for _, cmd := range precedence {
		word := strings.ToLower(byCommand[cmd])
		if word == "" {
			return nil, fmt.Errorf("%w: %s phrase is empty", errors.ErrEmptyTriggers, cmd)
		}
		if other, ok := words[word]; ok {
			return nil, fmt.Errorf("phrase %q is used by both %s and %s", word, other, cmd)
		}
		words[word] = cmd
		patterns = append(patterns, []rune(word))
	}

	sort.Slice(patterns, func(i, j int) bool { return string(patterns[i]) < string(patterns[j]) })

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Matcher{machine: m, words: words, phrases: phrases}, nil
}

func (m *Matcher) Phrases() Phrases { return m.phrases }

// Detect returns the winning command among the enabled ones, or None.
// Containment is enough: the phrase may appear anywhere in the text.
func (m *Matcher) Detect(text string, enabled ...Command) Command {
	found := m.find(text)
	for _, cmd := range precedence {
		if found[cmd] && isEnabled(cmd, enabled) {
			return cmd
		}
	}
	return None
}

func (m *Matcher) find(text string) map[Command]bool {
	found := map[Command]bool{}
	runes := []rune(strings.ToLower(text))
	if len(runes) == 0 {
		return found
	}
	for _, term := range m.machine.MultiPatternSearch(runes, false) {
		if cmd, ok := m.words[string(term.Word)]; ok {
			found[cmd] = true
		}
	}
	return found
}

func isEnabled(cmd Command, enabled []Command) bool {
	if len(enabled) == 0 {
		return true
	}
	for _, e := range enabled {
		if e == cmd {
			return true
		}
	}
	return false
}
