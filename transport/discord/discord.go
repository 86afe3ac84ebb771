// Package discord connects the relay to a Discord bot account.
// A guild is a chat; answers go back to the channel the trigger came from.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"mention-relay/contract"
	"mention-relay/domain"
	"mention-relay/domain/event"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var (
	_ contract.EventSource = (*Transport)(nil)
	_ contract.Sender      = (*Transport)(nil)
)

type Transport struct {
	mu       sync.Mutex
	log      *slog.Logger
	session  *discordgo.Session
	events   chan event.Inbound
	ctx      context.Context
	removers []func()
}

func New(token string, bufferSize int, log *slog.Logger) (*Transport, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildBans |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent
	// Handlers run on the gateway goroutine so events reach the dispatcher in delivery order.
	s.SyncEvents = true

	return &Transport{
		log:     log,
		session: s,
		events:  make(chan event.Inbound, bufferSize),
		ctx:     context.Background(),
	}, nil
}

func (t *Transport) Events() <-chan event.Inbound { return t.events }

// Start registers the gateway handlers and opens the connection.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	t.ctx = ctx
	t.removers = append(t.removers,
		t.session.AddHandler(t.onMessageCreate),
		t.session.AddHandler(t.onGuildMemberRemove),
		t.session.AddHandler(t.onGuildBanAdd),
	)
	t.mu.Unlock()

	if err := t.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	t.log.Info("Connected to Discord")
	return nil
}

func (t *Transport) Stop() error {
	t.mu.Lock()
	for _, remove := range t.removers {
		remove()
	}
	t.removers = nil
	t.mu.Unlock()

	if err := t.session.Close(); err != nil {
		return err
	}
	t.log.Info("Disconnected from Discord")
	return nil
}

// Send posts to the reply channel, or to the chat itself for direct messages.
// Only rich messages are allowed to ping users.
func (t *Transport) Send(ctx context.Context, message contract.OutboundMessage) error {
	channelID := message.ReplyTarget
	if channelID == "" {
		channelID = string(message.ChatID)
	}
	allowed := &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
	if message.Mode == contract.RenderRichMentions {
		allowed.Parse = []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}
	}
	_, err := t.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         message.Text,
		AllowedMentions: allowed,
	}, discordgo.WithContext(ctx))
	return err
}

func (t *Transport) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	t.publish(ToMessageReceived(m.Message, t.guildName(s, m.GuildID)))
}

func (t *Transport) onGuildMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.Member.User == nil {
		return
	}
	t.publish(event.MembershipChanged{
		ChatID:    domain.ChatID(m.GuildID),
		SubjectID: domain.ParticipantID(m.Member.User.ID),
		NewStatus: event.StatusLeft,
	})
}

func (t *Transport) onGuildBanAdd(_ *discordgo.Session, m *discordgo.GuildBanAdd) {
	if m.User == nil {
		return
	}
	t.publish(event.MembershipChanged{
		ChatID:    domain.ChatID(m.GuildID),
		SubjectID: domain.ParticipantID(m.User.ID),
		NewStatus: event.StatusKicked,
	})
}

// publish blocks until the dispatcher takes the event, so nothing is dropped under load.
func (t *Transport) publish(evt event.Inbound) {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()

	select {
	case t.events <- evt:
	case <-ctx.Done():
		t.log.Debug("Context done, event not published", "kind", evt.Kind())
	}
}

func (t *Transport) guildName(s *discordgo.Session, guildID string) string {
	if guildID == "" || s.State == nil {
		return ""
	}
	g, err := s.State.Guild(guildID)
	if err != nil {
		t.log.Debug("Guild not in state cache", "guild_id", guildID, "error", err)
		return ""
	}
	return g.Name
}

// ToMessageReceived maps a gateway message onto the relay event.
// Direct messages have no guild, so the channel itself is the chat.
func ToMessageReceived(m *discordgo.Message, guildName string) event.MessageReceived {
	chatID := m.GuildID
	if chatID == "" {
		chatID = m.ChannelID
	}
	evt := event.MessageReceived{
		MessageID:   m.ID,
		ChatID:      domain.ChatID(chatID),
		ChatTitle:   guildName,
		ReplyTarget: m.ChannelID,
		Text:        m.Content,
		At:          m.Timestamp,
	}
	if m.Author != nil {
		evt.SenderID = domain.ParticipantID(m.Author.ID)
		evt.SenderHandle = m.Author.Username
		evt.SenderName = m.Author.GlobalName
	}
	return evt
}
