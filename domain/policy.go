package domain

import (
	"fmt"
	"mention-relay/errors"
)

type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeChat   Scope = "chat"
)

type SubscriptionModel string

const (
	// SubscriptionNone has no opt-in state: every known participant is mentionable.
	SubscriptionNone SubscriptionModel = "none"
	// SubscriptionImplicitOptOut starts participants subscribed; they may opt out.
	SubscriptionImplicitOptOut SubscriptionModel = "implicit-opt-out"
	// SubscriptionExplicitOptIn starts participants unsubscribed; they must opt in.
	SubscriptionExplicitOptIn SubscriptionModel = "explicit-opt-in"
)

type Generation string

const (
	GenerationA Generation = "A"
	GenerationB Generation = "B"
	GenerationC Generation = "C"
)

// Policy drives the roster and the handlers.
// The three historical behaviours are presets of the same knobs.
type Policy struct {
	Scope                 Scope
	Subscription          SubscriptionModel
	LeaveCleanup          bool
	PersistOnEveryObserve bool
	WelcomeOnJoin         bool
}

func PolicyFor(g Generation) (Policy, error) {
	switch g {
	case GenerationA:
		return Policy{Scope: ScopeGlobal, Subscription: SubscriptionNone}, nil
	case GenerationB:
		return Policy{Scope: ScopeChat, Subscription: SubscriptionNone, PersistOnEveryObserve: true}, nil
	case GenerationC:
		return Policy{
			Scope:         ScopeChat,
			Subscription:  SubscriptionExplicitOptIn,
			LeaveCleanup:  true,
			WelcomeOnJoin: true,
		}, nil
	default:
		return Policy{}, fmt.Errorf("unknown policy generation %q", g)
	}
}

// PolicyOverrides replaces individual knobs of a preset. Nil fields keep the preset value.
type PolicyOverrides struct {
	Scope                 *Scope
	Subscription          *SubscriptionModel
	LeaveCleanup          *bool
	PersistOnEveryObserve *bool
	WelcomeOnJoin         *bool
}

// With applies the overrides, rejecting unknown scopes and subscription models.
func (p Policy) With(o PolicyOverrides) (Policy, error) {
	if o.Scope != nil {
		switch *o.Scope {
		case ScopeGlobal, ScopeChat:
			p.Scope = *o.Scope
		default:
			return Policy{}, fmt.Errorf("%w: %q", errors.ErrUnknownScope, *o.Scope)
		}
	}
	if o.Subscription != nil {
		switch *o.Subscription {
		case SubscriptionNone, SubscriptionImplicitOptOut, SubscriptionExplicitOptIn:
			p.Subscription = *o.Subscription
		default:
			return Policy{}, fmt.Errorf("%w: %q", errors.ErrUnknownSubscriptions, *o.Subscription)
		}
	}
	if o.LeaveCleanup != nil {
		p.LeaveCleanup = *o.LeaveCleanup
	}
	if o.PersistOnEveryObserve != nil {
		p.PersistOnEveryObserve = *o.PersistOnEveryObserve
	}
	if o.WelcomeOnJoin != nil {
		p.WelcomeOnJoin = *o.WelcomeOnJoin
	}
	return p, nil
}

// InvitesOnJoin reports whether a participant seen for the first time gets the opt-in prompt.
// Only an explicit opt-in model has something to invite to.
func (p Policy) InvitesOnJoin() bool {
	return p.WelcomeOnJoin && p.Subscription == SubscriptionExplicitOptIn
}

// HasSubscriptions reports whether subscribe/unsubscribe commands mean anything.
func (p Policy) HasSubscriptions() bool {
	return p.Subscription == SubscriptionImplicitOptOut || p.Subscription == SubscriptionExplicitOptIn
}

// DefaultSubscribed is the subscription state of a participant seen for the first time.
func (p Policy) DefaultSubscribed() bool {
	return p.Subscription != SubscriptionExplicitOptIn
}

// Mentionable reports whether the participant may appear in a broadcast.
func (p Policy) Mentionable(participant Participant) bool {
	if !p.HasSubscriptions() {
		return true
	}
	return participant.Subscribed
}

// RosterKey maps the chat an event came from onto the roster scope it belongs to.
func (p Policy) RosterKey(chatID ChatID) ChatID {
	if p.Scope == ScopeGlobal {
		return GlobalChatID
	}
	return chatID
}
