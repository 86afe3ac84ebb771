package main

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/errors"
	"mention-relay/repositories"
	"mention-relay/roster"
	"mention-relay/runtime"
	"mention-relay/runtime/workers"
	"mention-relay/services"
	"mention-relay/transport/discord"
	"mention-relay/trigger"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the relay lifecycle, and centralizes error reporting.
// Returning instead of exiting lets deferred cleanup (store close, final flush) run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	policy, err := config.Policy()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log.Info("Policy loaded",
		"generation", config.PolicyGeneration,
		"scope", policy.Scope,
		"subscription", policy.Subscription,
		"leave_cleanup", policy.LeaveCleanup,
		"persist_on_every_observe", policy.PersistOnEveryObserve)

	// 2. Persistence
	store, closeStore, err := openStore(config, repositories.NewCodec(policy), log)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := roster.NewRoster(ctx, store, policy, log)
	if err != nil {
		return err
	}

	// 3. Transport & handlers
	matcher, err := trigger.NewMatcher(config.Phrases())
	if err != nil {
		return fmt.Errorf("trigger phrases: %w", err)
	}
	transport, err := discord.New(config.BotToken, config.EventBufferSize, log)
	if err != nil {
		return err
	}
	relay := services.NewRelayService(log, r, matcher, discord.Renderer{}, transport)

	// 4. Supervision & orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, transport, relay, r, config.DedupCapacity).
		WithBacklogSampling(config.BacklogInterval)
	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}

	// 5. Wait for stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err = orchestrator.Stop(shutdownCtx); err != nil {
		return err
	}
	log.Info("Program stopped cleanly")
	return nil
}

func openStore(config Config, codec repositories.Codec, log *slog.Logger) (repositories.IRosterStore, func(), error) {
	switch config.StoreBackend {
	case "file":
		store, err := repositories.NewFileRosterStore(config.RosterFilepath, codec, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		closeDB := func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}
		return repositories.NewBadgerRosterStore(db, codec, log), closeDB, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errors.ErrUnknownStoreBackend, config.StoreBackend)
	}
}
