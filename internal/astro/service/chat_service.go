package service

//go:generate mockgen -destination=../../mocks/mock_completer.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service Completer

import (
	"context"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/llm"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/google/uuid"
)

const (
	DefaultChatRateLimit = 20
	DefaultChatWindow    = time.Minute
)

// Completer produces the assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

type ChatInput struct {
	Email           string
	IP              string
	Messages        []llm.Message
	InitialGreeting bool
	// TurnID makes the charge idempotent; a random id is used when empty.
	TurnID string
}

type ChatResult struct {
	Response string
	// Credits is the balance after the turn; nil for the greeting, which is free.
	Credits *int
	TurnID  string
}

type ChatService struct {
	repo    domain.UserRepository
	ledger  *LedgerService
	llm     Completer
	limiter *ratelimit.Limiter
	log     logging.Logger
	metrics *metrics.Metrics

	cost   int
	limit  int
	window time.Duration
}

func NewChatService(repo domain.UserRepository, ledger *LedgerService, completer Completer,
	limiter *ratelimit.Limiter, log logging.Logger, m *metrics.Metrics) *ChatService {
	if log == nil {
		log = logging.Nop()
	}
	return &ChatService{
		repo:    repo,
		ledger:  ledger,
		llm:     completer,
		limiter: limiter,
		log:     log,
		metrics: m,
		cost:    domain.ChatTurnCost,
		limit:   DefaultChatRateLimit,
		window:  DefaultChatWindow,
	}
}

// Chat runs one conversation turn. Credits are checked before the model is
// called and deducted only after it answered; a failed turn costs nothing.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if !s.limiter.Allow("chat:"+in.Email, s.limit, s.window, in.IP) {
		s.metrics.RateLimited("chat")
		s.metrics.ChatTurn("rate_limited")
		return nil, &apperr.Error{
			Kind:    apperr.ErrRateLimited,
			Op:      "chat",
			Message: "The cosmic channels are busy. Please wait a moment before trying again.",
		}
	}

	messages, err := sanitizeMessages(in.Messages)
	if err != nil {
		s.metrics.ChatTurn("invalid")
		return nil, err
	}

	if !in.InitialGreeting {
		balance, err := s.ledger.Balance(ctx, in.Email)
		if err != nil {
			s.metrics.ChatTurn("error")
			return nil, err
		}
		if balance < s.cost {
			s.metrics.ChatTurn("insufficient_credits")
			return nil, &apperr.Error{
				Kind:    apperr.ErrInsufficientCredits,
				Op:      "chat",
				Message: "You need more credits to continue chatting. Would you like to purchase more?",
			}
		}
	}

	var dob *time.Time
	status, err := s.repo.GetDOBStatus(ctx, in.Email)
	if err != nil {
		s.log.Warn(ctx, "zodiac lookup failed", "email", in.Email, "error", err)
	} else if status != nil && status.Collected {
		dob = status.DOB
	}

	prompt := make([]llm.Message, 0, len(messages)+1)
	prompt = append(prompt, llm.Message{Role: "system", Content: systemPrompt(in.InitialGreeting, dob)})
	prompt = append(prompt, messages...)

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.metrics.UpstreamError("llm")
		s.metrics.ChatTurn("upstream_error")
		s.log.Error(ctx, "chat completion failed",
			"email", in.Email, "greeting", in.InitialGreeting,
			"upstream_status", apperr.UpstreamStatus(err), "error", err)
		return nil, err
	}

	if in.InitialGreeting {
		s.metrics.ChatTurn("greeting")
		return &ChatResult{Response: reply}, nil
	}

	turnID := in.TurnID
	if turnID == "" {
		turnID = uuid.NewString()
	}

	balance, err := s.ledger.ChargeForTurn(ctx, in.Email, turnID, s.cost)
	if err != nil {
		s.metrics.ChatTurn("charge_failed")
		s.log.Error(ctx, "chat charge failed", "email", in.Email, "turn_id", turnID, "error", err)
		return nil, err
	}

	s.metrics.ChatTurn("ok")
	return &ChatResult{Response: reply, Credits: &balance, TurnID: turnID}, nil
}

// sanitizeMessages keeps only user and assistant turns so callers cannot
// inject system instructions.
func sanitizeMessages(in []llm.Message) ([]llm.Message, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("chat", "Please provide a valid message.")
	}

	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != "user" && role != "assistant" {
			return nil, apperr.Validation("chat", "Please provide a valid message.")
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, apperr.Validation("chat", "Please provide a valid message.")
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out, nil
}
