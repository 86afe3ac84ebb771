package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/domain"
	"os"
	"path/filepath"
)

// FileRosterStore keeps the roster as a single JSON file.
// Writes go to a temporary file in the same directory, are fsynced and renamed
// into place, so a crash mid-write leaves the previous document intact.
type FileRosterStore struct {
	path  string
	codec Codec
	log   *slog.Logger
}

func NewFileRosterStore(path string, codec Codec, log *slog.Logger) (*FileRosterStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating roster directory: %w", err)
	}
	return &FileRosterStore{path: path, codec: codec, log: log}, nil
}

// Load never fails on a missing, unreadable or corrupt file: it degrades to an empty document.
func (f *FileRosterStore) Load(_ context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.log.Info("No existing roster file found, starting fresh", "path", f.path)
		} else {
			f.log.Warn("Roster file is unreadable, starting fresh", "path", f.path, "error", err)
		}
		return domain.NewDocument(), nil
	}

	doc, err := f.codec.Decode(data)
	if err != nil {
		f.log.Warn("Roster file is empty or corrupt, starting fresh", "path", f.path, "error", err)
		return domain.NewDocument(), nil
	}
	f.log.Info("Loaded roster", "path", f.path, "chats", len(doc.Chats))
	return doc, nil
}

func (f *FileRosterStore) Save(_ context.Context, doc *domain.Document) error {
	data, err := f.codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("marshaling roster: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary roster file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temporary roster file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temporary roster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temporary roster file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming roster file into place: %w", err)
	}

	// The rename is only durable once the directory entry reaches disk.
	if dir, err := os.Open(filepath.Dir(f.path)); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}
	f.log.Debug("Roster saved", "path", f.path)
	return nil
}
