package roster_test

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/domain"
	"mention-relay/errors"
	"mention-relay/mocks"
	"mention-relay/repositories"
	"mention-relay/roster"
	"path/filepath"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newPolicy(t *testing.T, g domain.Generation) domain.Policy {
	policy, err := domain.PolicyFor(g)
	require.NoError(t, err)
	return policy
}

func newFileRoster(t *testing.T, policy domain.Policy) (*roster.Roster, repositories.IRosterStore) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := repositories.NewFileRosterStore(filepath.Join(t.TempDir(), "user_infos.json"), repositories.NewCodec(policy), log)
	require.NoError(t, err)
	r, err := roster.NewRoster(context.Background(), store, policy, log)
	require.NoError(t, err)
	return r, store
}

func observation(chat domain.ChatID, id domain.ParticipantID, at time.Time) roster.Observation {
	return roster.Observation{ChatID: chat, ChatTitle: "Group", ParticipantID: id, Name: "Ann", At: at}
}

func TestRoster_ObserveParticipant_IsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, store := newFileRoster(t, newPolicy(t, domain.GenerationC))

	created, err := r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)
	req.True(created)

	created, err = r.ObserveParticipant(ctx, observation("C1", "P1", t0.Add(time.Hour)))
	req.NoError(err)
	req.False(created)

	p, ok := r.Participant("C1", "P1")
	req.True(ok)
	req.Equal(t0, p.JoinedAt)
	req.False(p.Subscribed)

	// The first sight is durable
	doc, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(t0, doc.Chats["C1"].Participants["P1"].JoinedAt)
}

func TestRoster_ObserveParticipant_RefreshesDetailsButNotSubscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, _ := newFileRoster(t, newPolicy(t, domain.GenerationC))

	_, err := r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)
	_, err = r.SetSubscription(ctx, "C1", "P1", true)
	req.NoError(err)

	_, err = r.ObserveParticipant(ctx, roster.Observation{
		ChatID: "C1", ChatTitle: "Renamed", ParticipantID: "P1", Handle: "ann", Name: "Annie", At: t0.Add(time.Minute),
	})
	req.NoError(err)

	p, _ := r.Participant("C1", "P1")
	req.Equal("ann", p.Handle)
	req.Equal("Annie", p.Name)
	req.True(p.Subscribed)
	req.Equal("Renamed", r.Document().Chats["C1"].Title)
}

func TestRoster_ObserveParticipant_PersistencePolicy(t *testing.T) {
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		name       string
		generation domain.Generation
		saves      int
	}{
		{name: "First sight only", generation: domain.GenerationC, saves: 1},
		{name: "Every observation", generation: domain.GenerationB, saves: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			store := mocks.NewMockIRosterStore(ctrl)
			store.EXPECT().Load(gomock.Any()).Return(domain.NewDocument(), nil).Times(1)
			store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(tt.saves)

			r, err := roster.NewRoster(ctx, store, newPolicy(t, tt.generation), log)
			req.NoError(err)
			for i := 0; i < 3; i++ {
				_, err = r.ObserveParticipant(ctx, observation("C1", "P1", t0))
				req.NoError(err)
			}
		})
	}
}

func TestRoster_ObserveParticipant_DefaultSubscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	policy := newPolicy(t, domain.GenerationC)
	policy.Subscription = domain.SubscriptionImplicitOptOut
	r, _ := newFileRoster(t, policy)

	_, err := r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)
	p, _ := r.Participant("C1", "P1")
	req.True(p.Subscribed)
}

func TestRoster_GlobalScope_SharesOneRoster(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, _ := newFileRoster(t, newPolicy(t, domain.GenerationA))

	_, err := r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)
	created, err := r.ObserveParticipant(ctx, observation("C2", "P1", t0))
	req.NoError(err)
	req.False(created)
	_, err = r.ObserveParticipant(ctx, observation("C2", "P2", t0))
	req.NoError(err)

	req.Len(r.Snapshot("C1"), 2)
	req.Len(r.Snapshot("anything"), 2)
	req.Len(r.Document().Chats, 1)
}

func TestRoster_GlobalScope_SubscriptionSurvivesRestart(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	policy := domain.Policy{Scope: domain.ScopeGlobal, Subscription: domain.SubscriptionExplicitOptIn}
	path := filepath.Join(t.TempDir(), "user_infos.json")
	open := func() *roster.Roster {
		store, err := repositories.NewFileRosterStore(path, repositories.NewCodec(policy), log)
		req.NoError(err)
		r, err := roster.NewRoster(ctx, store, policy, log)
		req.NoError(err)
		return r
	}

	// Given P1 opted in and P2 never did
	r := open()
	_, err := r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)
	_, err = r.ObserveParticipant(ctx, observation("C2", "P2", t0))
	req.NoError(err)
	_, err = r.SetSubscription(ctx, "C1", "P1", true)
	req.NoError(err)

	// When the relay restarts
	r = open()

	// Then both flags and join times come back from disk
	p1, ok := r.Participant("C1", "P1")
	req.True(ok)
	req.True(p1.Subscribed)
	p2, ok := r.Participant("C2", "P2")
	req.True(ok)
	req.False(p2.Subscribed)
	req.Equal(t0, p2.JoinedAt)
}

func TestRoster_SetSubscription(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, store := newFileRoster(t, newPolicy(t, domain.GenerationC))

	_, err := r.SetSubscription(ctx, "C1", "P1", true)
	req.ErrorIs(err, errors.ErrParticipantNotFound)

	_, err = r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)

	changed, err := r.SetSubscription(ctx, "C1", "P1", true)
	req.NoError(err)
	req.True(changed)

	changed, err = r.SetSubscription(ctx, "C1", "P1", true)
	req.NoError(err)
	req.False(changed)

	doc, err := store.Load(ctx)
	req.NoError(err)
	req.True(doc.Chats["C1"].Participants["P1"].Subscribed)
}

func TestRoster_RemoveParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, store := newFileRoster(t, newPolicy(t, domain.GenerationC))

	removed, err := r.RemoveParticipant(ctx, "C2", "P3")
	req.NoError(err)
	req.False(removed)

	_, err = r.ObserveParticipant(ctx, observation("C2", "P3", t0))
	req.NoError(err)

	removed, err = r.RemoveParticipant(ctx, "C2", "P3")
	req.NoError(err)
	req.True(removed)
	req.Empty(r.Snapshot("C2"))

	doc, err := store.Load(ctx)
	req.NoError(err)
	req.NotNil(doc.Chats["C2"])
	req.Empty(doc.Chats["C2"].Participants)
}

func TestRoster_Snapshot_IsSortedCopy(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	r, _ := newFileRoster(t, newPolicy(t, domain.GenerationB))

	for _, id := range []domain.ParticipantID{"30", "10", "20"} {
		_, err := r.ObserveParticipant(ctx, observation("C1", id, t0))
		req.NoError(err)
	}

	snapshot := r.Snapshot("C1")
	req.Equal([]domain.ParticipantID{"10", "20", "30"},
		[]domain.ParticipantID{snapshot[0].ID, snapshot[1].ID, snapshot[2].ID})

	snapshot[0].Name = "mutated"
	p, _ := r.Participant("C1", "10")
	req.Equal("Ann", p.Name)
	req.Nil(r.Snapshot("unknown"))
}

func TestRoster_SaveFailure_RollsBack(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIRosterStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(domain.NewDocument(), nil)

	r, err := roster.NewRoster(ctx, store, newPolicy(t, domain.GenerationC), log)
	req.NoError(err)

	// Given the first registration is saved
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	_, err = r.ObserveParticipant(ctx, observation("C1", "P1", t0))
	req.NoError(err)

	// When the store starts failing
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(fmt.Errorf("disk full")).AnyTimes()

	_, err = r.ObserveParticipant(ctx, observation("C9", "P9", t0))
	req.ErrorIs(err, errors.ErrPersistFailed)
	_, err = r.SetSubscription(ctx, "C1", "P1", true)
	req.ErrorIs(err, errors.ErrPersistFailed)
	_, err = r.RemoveParticipant(ctx, "C1", "P1")
	req.ErrorIs(err, errors.ErrPersistFailed)

	// Then memory still matches the last durable state
	_, ok := r.Participant("C9", "P9")
	req.False(ok)
	p, ok := r.Participant("C1", "P1")
	req.True(ok)
	req.False(p.Subscribed)
	req.Len(r.Document().Chats, 1)
}
