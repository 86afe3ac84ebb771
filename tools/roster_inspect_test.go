package main

import (
	"context"
	"log/slog"
	"mention-relay/domain"
	"mention-relay/repositories"
	"path/filepath"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestInspectConfig_ReadsRelayOverrides(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "user_infos.json")
	t.Setenv("POLICY_GENERATION", "C")
	t.Setenv("ROSTER_SCOPE", "global")
	t.Setenv("ROSTER_FILEPATH", path)

	// Given a roster written by a relay running C with a global scope
	written, err := domain.PolicyFor(domain.GenerationC)
	req.NoError(err)
	written.Scope = domain.ScopeGlobal
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := repositories.NewFileRosterStore(path, repositories.NewCodec(written), log)
	req.NoError(err)
	doc := domain.NewDocument()
	doc.Chat(domain.GlobalChatID, "").Participants["42"] = domain.Participant{
		ID: "42", Handle: "ann", JoinedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC), Subscribed: true,
	}
	req.NoError(store.Save(context.Background(), doc))

	// When the inspector resolves its policy from the same environment
	var cfg inspectConfig
	req.NoError(envconfig.Process("", &cfg))
	policy, err := cfg.Policy()
	req.NoError(err)
	req.Equal(written, policy)

	// Then it decodes the same document
	reader, err := repositories.NewFileRosterStore(cfg.RosterFilepath, repositories.NewCodec(policy), log)
	req.NoError(err)
	loaded, err := reader.Load(context.Background())
	req.NoError(err)
	req.Equal(doc, loaded)
}

func TestInspectConfig_RejectsUnknownScope(t *testing.T) {
	scope := "planet"
	_, err := inspectConfig{PolicyGeneration: "A", RosterScope: &scope}.Policy()
	require.Error(t, err)
}
