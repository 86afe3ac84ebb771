package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"mention-relay/domain"
	"mention-relay/repositories"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type inspectConfig struct {
	PolicyGeneration  string  `envconfig:"POLICY_GENERATION" default:"C"`
	RosterScope       *string `envconfig:"ROSTER_SCOPE"`
	SubscriptionModel *string `envconfig:"SUBSCRIPTION_MODEL"`
	StoreBackend      string  `envconfig:"STORE_BACKEND" default:"file"`
	RosterFilepath    string  `envconfig:"ROSTER_FILEPATH" default:"data/user_infos.json"`
	BadgerFilepath    string  `envconfig:"BADGER_FILEPATH" default:"data/badger"`
	Colours           bool    `envconfig:"INSPECT_COLOURS" default:"true"`
}

// Policy resolves the layout the relay wrote with: the preset plus the scope and subscription overrides.
func (c inspectConfig) Policy() (domain.Policy, error) {
	policy, err := domain.PolicyFor(domain.Generation(c.PolicyGeneration))
	if err != nil {
		return domain.Policy{}, err
	}
	return policy.With(domain.PolicyOverrides{
		Scope:        (*domain.Scope)(c.RosterScope),
		Subscription: (*domain.SubscriptionModel)(c.SubscriptionModel),
	})
}

func main() {
	var cfg inspectConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}
	chatFilter := flag.String("chat", "", "Only show this chat id")
	flag.Parse()
	color.Enable = cfg.Colours

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatal(err)
	}
	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	codec := repositories.NewCodec(policy)

	var store repositories.IRosterStore
	switch cfg.StoreBackend {
	case "badger":
		db, err := openDB(cfg.BadgerFilepath)
		if err != nil {
			log.Fatal("Error while opening Badger: ", err)
		}
		defer db.Close()
		store = repositories.NewBadgerRosterStore(db, codec, logger)
	default:
		store, err = repositories.NewFileRosterStore(cfg.RosterFilepath, codec, logger)
		if err != nil {
			log.Fatal(err)
		}
	}

	doc, err := store.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Chat", "Title", "Participant", "Handle", "Name", "Joined", "Subscribed"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	chatIDs := lo.Keys(doc.Chats)
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	for _, chatID := range chatIDs {
		if *chatFilter != "" && string(chatID) != *chatFilter {
			continue
		}
		chat := doc.Chats[chatID]
		for _, p := range chat.Sorted() {
			table.Append([]string{
				string(chatID),
				chat.Title,
				string(p.ID),
				lo.Ternary(p.Handle == "", "-", "@"+p.Handle),
				p.Name,
				lo.Ternary(p.JoinedAt.IsZero(), "-", p.JoinedAt.Format(time.DateTime)),
				subscribedCell(policy, p),
			})
		}
	}
	table.Render()

	total := lo.SumBy(lo.Values(doc.Chats), func(c *domain.ChatRoster) int { return len(c.Participants) })
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%d chats, %d participants\n", len(doc.Chats), total)
}

func subscribedCell(policy domain.Policy, p domain.Participant) string {
	if !policy.HasSubscriptions() {
		return color.Gray.Sprint("n/a")
	}
	if p.Subscribed {
		return color.Green.Sprint("yes")
	}
	return color.Red.Sprint("no")
}

// openDB opens Badger read-only so the inspector can run next to a live relay.
func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
