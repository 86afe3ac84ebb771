package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/domain"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const rosterKey = "roster:document"

// BadgerRosterStore keeps the roster document under a single Badger key.
// The JSON document is stored as a protobuf Struct so the value is compact and self-describing.
type BadgerRosterStore struct {
	db    *badger.DB
	codec Codec
	log   *slog.Logger
}

func NewBadgerRosterStore(db *badger.DB, codec Codec, log *slog.Logger) *BadgerRosterStore {
	return &BadgerRosterStore{db: db, codec: codec, log: log}
}

func (b *BadgerRosterStore) Load(_ context.Context) (*domain.Document, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(rosterKey))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		b.log.Info("No existing roster in Badger, starting fresh")
		return domain.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster from badger: %w", err)
	}

	var st structpb.Struct
	if err := proto.Unmarshal(value, &st); err != nil {
		b.log.Warn("Roster value is corrupt, starting fresh", "error", err)
		return domain.NewDocument(), nil
	}
	data, err := protojson.Marshal(&st)
	if err != nil {
		b.log.Warn("Roster value is corrupt, starting fresh", "error", err)
		return domain.NewDocument(), nil
	}
	doc, err := b.codec.Decode(data)
	if err != nil {
		b.log.Warn("Roster value is corrupt, starting fresh", "error", err)
		return domain.NewDocument(), nil
	}
	return doc, nil
}

// Save replaces the document in a single transaction.
func (b *BadgerRosterStore) Save(_ context.Context, doc *domain.Document) error {
	data, err := b.codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("marshaling roster: %w", err)
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("converting roster to struct: %w", err)
	}
	bytes, err := proto.Marshal(&st)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rosterKey), bytes)
	})
}
