package domain

import (
	"mention-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyFor_Generations(t *testing.T) {
	req := require.New(t)

	a, err := PolicyFor(GenerationA)
	req.NoError(err)
	req.Equal(GlobalChatID, a.RosterKey("C1"))
	req.False(a.HasSubscriptions())
	req.True(a.Mentionable(Participant{Subscribed: false}))

	b, err := PolicyFor(GenerationB)
	req.NoError(err)
	req.Equal(ChatID("C1"), b.RosterKey("C1"))
	req.True(b.PersistOnEveryObserve)
	req.False(b.LeaveCleanup)

	c, err := PolicyFor(GenerationC)
	req.NoError(err)
	req.False(c.DefaultSubscribed())
	req.True(c.LeaveCleanup)
	req.False(c.Mentionable(Participant{Subscribed: false}))
	req.True(c.Mentionable(Participant{Subscribed: true}))

	_, err = PolicyFor("Z")
	req.Error(err)
}

func TestTokenFor(t *testing.T) {
	req := require.New(t)

	req.Equal(MentionHandle, TokenFor(Participant{ID: "1", Handle: "h", Name: "n"}).Kind)
	req.Equal(MentionName, TokenFor(Participant{ID: "1", Name: "n"}).Kind)
	tok := TokenFor(Participant{ID: "1"})
	req.Equal(MentionID, tok.Kind)
	req.Equal("1", tok.Label)
}

func TestDocument_CloneIsDeep(t *testing.T) {
	req := require.New(t)
	doc := NewDocument()
	doc.Chat("C1", "Group").Participants["P1"] = Participant{ID: "P1"}

	cp := doc.Clone()
	delete(cp.Chats["C1"].Participants, "P1")
	cp.Chats["C1"].Title = "Changed"

	req.Len(doc.Chats["C1"].Participants, 1)
	req.Equal("Group", doc.Chats["C1"].Title)
}

func TestPolicy_With(t *testing.T) {
	req := require.New(t)
	a, err := PolicyFor(GenerationA)
	req.NoError(err)

	scope, model, welcome := ScopeChat, SubscriptionExplicitOptIn, true
	p, err := a.With(PolicyOverrides{Scope: &scope, Subscription: &model, WelcomeOnJoin: &welcome})
	req.NoError(err)
	req.Equal(Policy{Scope: ScopeChat, Subscription: SubscriptionExplicitOptIn, WelcomeOnJoin: true}, p)
	req.True(p.InvitesOnJoin())

	unchanged, err := a.With(PolicyOverrides{})
	req.NoError(err)
	req.Equal(a, unchanged)

	badScope := Scope("planet")
	_, err = a.With(PolicyOverrides{Scope: &badScope})
	req.ErrorIs(err, errors.ErrUnknownScope)

	badModel := SubscriptionModel("maybe")
	_, err = a.With(PolicyOverrides{Subscription: &badModel})
	req.ErrorIs(err, errors.ErrUnknownSubscriptions)
}

func TestPolicy_InvitesOnJoin(t *testing.T) {
	req := require.New(t)
	req.False(Policy{Subscription: SubscriptionNone, WelcomeOnJoin: true}.InvitesOnJoin())
	req.False(Policy{Subscription: SubscriptionImplicitOptOut, WelcomeOnJoin: true}.InvitesOnJoin())
	req.False(Policy{Subscription: SubscriptionExplicitOptIn}.InvitesOnJoin())
	req.True(Policy{Subscription: SubscriptionExplicitOptIn, WelcomeOnJoin: true}.InvitesOnJoin())
}
