package repositories

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestFileRosterStore_LoadMissingFile(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := NewFileRosterStore(filepath.Join(t.TempDir(), "data", "user_infos.json"), NewCodec(policyC(t)), log)
	req.NoError(err)

	doc, err := store.Load(context.Background())

	req.NoError(err)
	req.NotNil(doc)
	req.Empty(doc.Chats)
}

func TestFileRosterStore_LoadCorruptFile(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	path := filepath.Join(t.TempDir(), "user_infos.json")
	req.NoError(os.WriteFile(path, []byte("{ this is not json"), 0o600))
	store, err := NewFileRosterStore(path, NewCodec(policyC(t)), log)
	req.NoError(err)

	doc, err := store.Load(context.Background())

	req.NoError(err)
	req.Empty(doc.Chats)
}

func TestFileRosterStore_SaveThenLoad(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dir := t.TempDir()
	path := filepath.Join(dir, "user_infos.json")
	store, err := NewFileRosterStore(path, NewCodec(policyC(t)), log)
	req.NoError(err)

	doc := sampleDocument()
	req.NoError(store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(doc, loaded)

	// Saving what was loaded does not change the content
	before, err := os.ReadFile(path)
	req.NoError(err)
	req.NoError(store.Save(ctx, loaded))
	after, err := os.ReadFile(path)
	req.NoError(err)
	req.JSONEq(string(before), string(after))

	// No temporary file is left behind
	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1)
}

func TestFileRosterStore_SaveReplacesPreviousDocument(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := NewFileRosterStore(filepath.Join(t.TempDir(), "user_infos.json"), NewCodec(policyC(t)), log)
	req.NoError(err)

	doc := sampleDocument()
	req.NoError(store.Save(ctx, doc))
	delete(doc.Chats["-100123"].Participants, "999")
	req.NoError(store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	req.NoError(err)
	req.Len(loaded.Chats["-100123"].Participants, 1)
}
