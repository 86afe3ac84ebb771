package trigger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcher_Detect(t *testing.T) {
	req := require.New(t)
	m, err := NewMatcher(DefaultPhrases())
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{name: "Plain message", input: "hello there", expected: None},
		{name: "Empty message", input: "", expected: None},
		{name: "Broadcast anywhere in text", input: "hey @everyone look", expected: Broadcast},
		{name: "Case insensitive", input: "HEY @EveryOne", expected: Broadcast},
		{name: "Glued to other words", input: "ping@everyone!", expected: Broadcast},
		{name: "Subscribe", input: "@subscribe please", expected: Subscribe},
		{name: "Unsubscribe", input: "please @UNSUBSCRIBE me", expected: Unsubscribe},
		{name: "Unsubscribe wins over broadcast", input: "@everyone @unsubscribe", expected: Unsubscribe},
		{name: "Subscribe wins over broadcast", input: "@everyone and @subscribe", expected: Subscribe},
		{name: "Unsubscribe wins over subscribe", input: "@subscribe @unsubscribe", expected: Unsubscribe},
		{name: "Non ASCII around phrase", input: "été @everyone ça va", expected: Broadcast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, m.Detect(tt.input))
		})
	}
}

func TestMatcher_Detect_OnlyEnabledCommands(t *testing.T) {
	req := require.New(t)
	m, err := NewMatcher(DefaultPhrases())
	req.NoError(err)

	// Given subscription commands are disabled, broadcast is the only candidate
	req.Equal(Broadcast, m.Detect("@subscribe @everyone", Broadcast))
	req.Equal(None, m.Detect("@unsubscribe", Broadcast))
}

func TestMatcher_CustomPhrases(t *testing.T) {
	req := require.New(t)
	m, err := NewMatcher(Phrases{Unsubscribe: "!Quiet", Subscribe: "!loud", Broadcast: "!all"})
	req.NoError(err)

	req.Equal(Unsubscribe, m.Detect("ok !quiet"))
	req.Equal(Broadcast, m.Detect("!ALL hands"))
	req.Equal(None, m.Detect("@everyone"))
}

func TestNewMatcher_RejectsInvalidPhrases(t *testing.T) {
	req := require.New(t)

	_, err := NewMatcher(Phrases{Unsubscribe: "@u", Subscribe: "", Broadcast: "@all"})
	req.Error(err)

	_, err = NewMatcher(Phrases{Unsubscribe: "@all", Subscribe: "@s", Broadcast: "@ALL"})
	req.Error(err)
}
