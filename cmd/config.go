package main

import (
	"mention-relay/domain"
	"mention-relay/errors"
	"mention-relay/trigger"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	BotToken              string        `env:"BOT_TOKEN"`
	LogLevel              string        `env:"LOG_LEVEL,default=INFO"`
	PolicyGeneration      string        `env:"POLICY_GENERATION,default=C" validate:"oneof=A B C"`
	RosterScope           *string       `env:"ROSTER_SCOPE" validate:"omitempty,oneof=global chat"`
	SubscriptionModel     *string       `env:"SUBSCRIPTION_MODEL" validate:"omitempty,oneof=none implicit-opt-out explicit-opt-in"`
	LeaveCleanup          *bool         `env:"LEAVE_CLEANUP"`
	PersistOnEveryObserve *bool         `env:"PERSIST_ON_EVERY_OBSERVE"`
	WelcomeOnJoin         *bool         `env:"WELCOME_ON_JOIN"`
	StoreBackend          string        `env:"STORE_BACKEND,default=file" validate:"oneof=file badger"`
	RosterFilepath        string        `env:"ROSTER_FILEPATH,default=data/user_infos.json" validate:"required"`
	BadgerFilepath        string        `env:"BADGER_FILEPATH,default=data/badger" validate:"required"`
	TriggerBroadcast      string        `env:"TRIGGER_BROADCAST,default=@everyone" validate:"required"`
	TriggerSubscribe      string        `env:"TRIGGER_SUBSCRIBE,default=@subscribe" validate:"required"`
	TriggerUnsubscribe    string        `env:"TRIGGER_UNSUBSCRIBE,default=@unsubscribe" validate:"required"`
	EventBufferSize       int           `env:"EVENT_BUFFER_SIZE,default=64" validate:"min=1"`
	DedupCapacity         int           `env:"DEDUP_CAPACITY,default=1024" validate:"min=1"`
	RestartInterval       time.Duration `env:"RESTART_INTERVAL,default=1s"`
	BacklogInterval       time.Duration `env:"BACKLOG_INTERVAL,default=30s"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Validate checks the values and reports a missing token first: without it the relay cannot start.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return errors.ErrMissingToken
	}
	return validator.New().Struct(c)
}

// Policy starts from the generation preset and applies the individual overrides.
func (c Config) Policy() (domain.Policy, error) {
	policy, err := domain.PolicyFor(domain.Generation(c.PolicyGeneration))
	if err != nil {
		return domain.Policy{}, err
	}
	return policy.With(domain.PolicyOverrides{
		Scope:                 (*domain.Scope)(c.RosterScope),
		Subscription:          (*domain.SubscriptionModel)(c.SubscriptionModel),
		LeaveCleanup:          c.LeaveCleanup,
		PersistOnEveryObserve: c.PersistOnEveryObserve,
		WelcomeOnJoin:         c.WelcomeOnJoin,
	})
}

func (c Config) Phrases() trigger.Phrases {
	return trigger.Phrases{
		Unsubscribe: c.TriggerUnsubscribe,
		Subscribe:   c.TriggerSubscribe,
		Broadcast:   c.TriggerBroadcast,
	}
}
