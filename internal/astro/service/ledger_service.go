package service

import (
	"context"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
)

// LedgerService owns every change to a user's credit balance. Each write
// invalidates the cache keys that can observe it.
type LedgerService struct {
	repo    domain.UserRepository
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewLedgerService(repo domain.UserRepository, log logging.Logger, m *metrics.Metrics) *LedgerService {
	if log == nil {
		log = logging.Nop()
	}
	return &LedgerService{repo: repo, log: log, metrics: m, now: time.Now}
}

// GrantSignupBonus creates the account with the signup bonus on first sign-in.
// It reports whether the account was created; existing accounts are untouched.
func (s *LedgerService) GrantSignupBonus(ctx context.Context, email, name string) (bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:     email,
		Name:      name,
		Credits:   domain.SignupBonus,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return false, err
	}

	s.repo.InvalidateCache(domain.BalanceKeys(email)...)
	if created {
		s.metrics.CreditsGranted("signup", domain.SignupBonus)
		s.log.Info(ctx, "user created", "email", email, "credits", domain.SignupBonus)
	}
	return created, nil
}

// ChargeForTurn deducts cost for the chat turn identified by turnID. Repeating
// a turnID does not charge again.
func (s *LedgerService) ChargeForTurn(ctx context.Context, email, turnID string, cost int) (int, error) {
	if cost <= 0 {
		return 0, apperr.Validation("ledger.charge", "Invalid charge amount.")
	}
	if turnID == "" {
		return 0, apperr.Validation("ledger.charge", "Missing turn id.")
	}

	balance, charged, err := s.repo.ChargeTurn(ctx, email, turnID, cost)
	if err != nil {
		return 0, err
	}

	if charged {
		s.repo.InvalidateCache(domain.BalanceKeys(email)...)
		s.metrics.CreditsCharged(cost)
	} else {
		s.log.Info(ctx, "chat turn already charged", "email", email, "turn_id", turnID)
	}
	return balance, nil
}

// ApplyGrant adds amount credits to the balance.
func (s *LedgerService) ApplyGrant(ctx context.Context, email string, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperr.Validation("ledger.grant", "Invalid credit amount.")
	}

	balance, err := s.repo.AddCredits(ctx, email, amount)
	if err != nil {
		return 0, err
	}

	s.repo.InvalidateCache(domain.BalanceKeys(email)...)
	s.metrics.CreditsGranted("grant", amount)
	return balance, nil
}

// SettlePurchase records a completed purchase and grants its credits
// atomically. applied is false when the order was settled before.
func (s *LedgerService) SettlePurchase(ctx context.Context, txn *domain.Transaction) (int, bool, error) {
	if txn.CreditsAdded <= 0 {
		return 0, false, apperr.Validation("ledger.settle", "Invalid credit amount.")
	}
	if txn.Status == "" {
		txn.Status = domain.TransactionCompleted
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = s.now()
	}

	balance, applied, err := s.repo.SettleOrder(ctx, txn)
	if err != nil {
		return 0, false, err
	}

	if applied {
		keys := append(domain.BalanceKeys(txn.UserEmail), domain.TransactionsCacheKey(txn.UserEmail))
		s.repo.InvalidateCache(keys...)
		s.metrics.CreditsGranted("purchase", txn.CreditsAdded)
	}
	return balance, applied, nil
}

// SetBalance overwrites the balance. Only administrators reach it.
func (s *LedgerService) SetBalance(ctx context.Context, email string, credits int) error {
	if credits < 0 {
		return apperr.Validation("ledger.set", "Invalid credits value")
	}

	if err := s.repo.SetCredits(ctx, email, credits); err != nil {
		return err
	}

	s.repo.InvalidateCache(domain.BalanceKeys(email)...)
	s.log.Warn(ctx, "balance overwritten", "email", email, "credits", credits)
	return nil
}

// Balance reads the current balance from the store, bypassing the cache.
func (s *LedgerService) Balance(ctx context.Context, email string) (int, error) {
	return s.repo.GetCredits(ctx, email)
}
