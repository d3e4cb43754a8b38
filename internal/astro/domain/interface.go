package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain UserRepository

import (
	"context"
	"time"
)

// UserRepository persists accounts, balances, chat turns and purchases.
// Reads marked cached go through the query cache; callers invalidate the
// affected keys after writes.
type UserRepository interface {
	// GetByEmail is cached under UserCacheKey. It returns nil when the user does not exist.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetSession is cached under SessionCacheKey.
	GetSession(ctx context.Context, email string) (*User, error)
	// GetCredits always reads the store.
	GetCredits(ctx context.Context, email string) (int, error)
	// GetDOBStatus is cached under DOBCheckCacheKey.
	GetDOBStatus(ctx context.Context, email string) (*DOBStatus, error)
	// GetCurrentDOB is cached under UserDOBCheckCacheKey.
	GetCurrentDOB(ctx context.Context, email string) (*DOBStatus, error)

	Create(ctx context.Context, user *User) (bool, error)
	UpdateDOB(ctx context.Context, email string, dob time.Time) error

	// ChargeTurn deducts cost once per (email, turnID). A replayed turn returns
	// the current balance with charged=false.
	ChargeTurn(ctx context.Context, email, turnID string, cost int) (balance int, charged bool, err error)
	AddCredits(ctx context.Context, email string, amount int) (int, error)
	SetCredits(ctx context.Context, email string, credits int) error

	// SettleOrder records txn and grants its credits in one transaction. An
	// order that was already settled returns applied=false.
	SettleOrder(ctx context.Context, txn *Transaction) (balance int, applied bool, err error)
	IsOrderSettled(ctx context.Context, externalOrderID string) (bool, error)
	// ListTransactions is cached under TransactionsCacheKey, newest first.
	ListTransactions(ctx context.Context, email string) ([]Transaction, error)

	InvalidateCache(keys ...string)
}
