//go:generate go run go.uber.org/mock/mockgen -source=relay_service.go -destination=../mocks/mock_relay_service.go -package=mocks
package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"mention-relay/contract"
	"mention-relay/domain"
	"mention-relay/domain/event"
	"mention-relay/errors"
	"mention-relay/mention"
	"mention-relay/roster"
	"mention-relay/trigger"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IRelayService interface {
	Handle(ctx context.Context, evt event.Inbound) Result
	HandleMessage(ctx context.Context, evt event.MessageReceived) Result
	HandleMembership(ctx context.Context, evt event.MembershipChanged) Result
}

// RelayService turns inbound chat events into roster mutations and outbound messages.
type RelayService struct {
	log       *slog.Logger
	roster    *roster.Roster
	resolver  mention.Resolver
	matcher   *trigger.Matcher
	renderer  contract.Renderer
	sender    contract.Sender
	policy    domain.Policy
	validator *validator.Validate
	now       func() time.Time
}

func NewRelayService(log *slog.Logger, r *roster.Roster, matcher *trigger.Matcher,
	renderer contract.Renderer, sender contract.Sender) *RelayService {
	return &RelayService{
		log:       log,
		roster:    r,
		resolver:  mention.NewResolver(r, r.Policy()),
		matcher:   matcher,
		renderer:  renderer,
		sender:    sender,
		policy:    r.Policy(),
		validator: validator.New(),
		now:       time.Now,
	}
}

func (s *RelayService) Handle(ctx context.Context, evt event.Inbound) Result {
	switch e := evt.(type) {
	case event.MessageReceived:
		return s.HandleMessage(ctx, e)
	case event.MembershipChanged:
		return s.HandleMembership(ctx, e)
	default:
		return Result{EventID: uuid.New(), Err: fmt.Errorf("%w: %T", errors.ErrUnsupportedEvent, evt)}
	}
}

// HandleMessage registers the sender, then runs at most one command:
// unsubscribe, else subscribe, else broadcast.
func (s *RelayService) HandleMessage(ctx context.Context, evt event.MessageReceived) Result {
	res := Result{
		EventID:       uuid.New(),
		Kind:          evt.Kind(),
		ChatID:        evt.ChatID,
		ParticipantID: evt.SenderID,
		Outcome:       OutcomeIgnored,
	}
	if err := s.validator.Struct(evt); err != nil {
		res.Err = fmt.Errorf("%w: %w", errors.ErrInvalidEvent, err)
		return res
	}

	at := evt.At
	if at.IsZero() {
		at = s.now()
	}
	created, err := s.roster.ObserveParticipant(ctx, roster.Observation{
		ChatID:        evt.ChatID,
		ChatTitle:     evt.Title(),
		ParticipantID: evt.SenderID,
		Handle:        evt.SenderHandle,
		Name:          evt.SenderName,
		At:            at,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Registered = created
	res.Outcome = OutcomeObserved

	var sendErrs []error
	if created && s.policy.InvitesOnJoin() {
		if err := s.send(ctx, evt, s.welcomeText(evt), contract.RenderPlain); err != nil {
			sendErrs = append(sendErrs, err)
		}
	}

	switch s.matcher.Detect(evt.Text, s.enabledCommands()...) {
	case trigger.Unsubscribe:
		err = s.setSubscription(ctx, evt, false, &res)
	case trigger.Subscribe:
		err = s.setSubscription(ctx, evt, true, &res)
	case trigger.Broadcast:
		err = s.broadcast(ctx, evt, &res)
	}
	if err != nil {
		sendErrs = append(sendErrs, err)
	}
	res.Err = goerrors.Join(sendErrs...)
	return res
}

// HandleMembership forgets participants who left or were removed, when the policy cleans up on leave.
func (s *RelayService) HandleMembership(ctx context.Context, evt event.MembershipChanged) Result {
	res := Result{
		EventID:       uuid.New(),
		Kind:          evt.Kind(),
		ChatID:        evt.ChatID,
		ParticipantID: evt.SubjectID,
		Outcome:       OutcomeIgnored,
	}
	if !s.policy.LeaveCleanup || !evt.NewStatus.IsDeparture() {
		return res
	}
	if err := s.validator.Struct(evt); err != nil {
		res.Err = fmt.Errorf("%w: %w", errors.ErrInvalidEvent, err)
		return res
	}
	removed, err := s.roster.RemoveParticipant(ctx, evt.ChatID, evt.SubjectID)
	if err != nil {
		res.Err = err
		return res
	}
	if removed {
		res.Outcome = OutcomeRemoved
	}
	return res
}

func (s *RelayService) enabledCommands() []trigger.Command {
	if s.policy.HasSubscriptions() {
		return []trigger.Command{trigger.Unsubscribe, trigger.Subscribe, trigger.Broadcast}
	}
	return []trigger.Command{trigger.Broadcast}
}

func (s *RelayService) setSubscription(ctx context.Context, evt event.MessageReceived, value bool, res *Result) error {
	changed, err := s.roster.SetSubscription(ctx, evt.ChatID, evt.SenderID, value)
	if err != nil && !goerrors.Is(err, errors.ErrParticipantNotFound) {
		return err
	}

	broadcast := s.matcher.Phrases().Broadcast
	var text string
	switch {
	case value && changed:
		res.Outcome = OutcomeSubscribed
		text = fmt.Sprintf("You have been subscribed to %s notifications.", broadcast)
	case value:
		res.Outcome = OutcomeAlreadySubscribed
		text = fmt.Sprintf("You are already subscribed to %s notifications.", broadcast)
	case changed:
		res.Outcome = OutcomeUnsubscribed
		text = fmt.Sprintf("You have been unsubscribed from %s notifications.", broadcast)
	default:
		res.Outcome = OutcomeAlreadyUnsubscribed
		text = fmt.Sprintf("You are already unsubscribed from %s notifications.", broadcast)
	}
	return s.send(ctx, evt, text, contract.RenderPlain)
}

func (s *RelayService) broadcast(ctx context.Context, evt event.MessageReceived, res *Result) error {
	s.log.Info("Broadcast trigger detected", "chat_id", evt.ChatID, "participant_id", evt.SenderID)
	tokens := s.resolver.Resolve(evt.ChatID, evt.SenderID)
	if len(tokens) == 0 {
		res.Outcome = OutcomeNobodyToMention
		return s.send(ctx, evt, "No one to mention (maybe everyone has unsubscribed)!", contract.RenderPlain)
	}

	mentions := lo.Map(tokens, func(t domain.MentionToken, _ int) string {
		return s.renderer.Mention(t)
	})
	res.Outcome = OutcomeBroadcast
	res.Mentions = len(mentions)
	if err := s.send(ctx, evt, "Pinging everyone:\n"+strings.Join(mentions, " "), contract.RenderRichMentions); err != nil {
		return err
	}
	s.log.Info(fmt.Sprintf("Pinged %d participants", len(mentions)), "chat_id", evt.ChatID)
	return nil
}

func (s *RelayService) welcomeText(evt event.MessageReceived) string {
	greeting := lo.CoalesceOrEmpty(evt.SenderName, evt.SenderHandle, string(evt.SenderID))
	phrases := s.matcher.Phrases()
	return fmt.Sprintf("Hi %s! If you want to receive %s notifications in this group, send '%s'.\n"+
		"You can always opt out later with '%s'.",
		greeting, phrases.Broadcast, phrases.Subscribe, phrases.Unsubscribe)
}

func (s *RelayService) send(ctx context.Context, evt event.MessageReceived, text string, mode contract.RenderMode) error {
	err := s.sender.Send(ctx, contract.OutboundMessage{
		ChatID:      evt.ChatID,
		ReplyTarget: evt.ReplyTarget,
		Text:        text,
		Mode:        mode,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSendFailed, err)
	}
	return nil
}
