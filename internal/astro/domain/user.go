package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SignupBonus is granted once when an account is first created.
	SignupBonus = 30
	// ChatTurnCost is charged for every successful non-greeting chat turn.
	ChatTurnCost = 5
)

type User struct {
	Email        string
	Name         string
	Credits      int
	DOB          *time.Time
	DOBCollected bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DOBStatus is the birth-date view of a user.
type DOBStatus struct {
	DOB       *time.Time
	Collected bool
}

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction records a settled credit purchase. ExternalOrderID is unique
// among completed transactions.
type Transaction struct {
	ID              string
	UserEmail       string
	PackageID       string
	CreditsAdded    int
	AmountUSD       decimal.Decimal
	ExternalOrderID string
	Status          TransactionStatus
	CreatedAt       time.Time
}

// CreditPackage is a purchasable bundle of credits.
type CreditPackage struct {
	ID                string
	Name              string
	Credits           int
	PriceUSD          decimal.Decimal
	ExternalProductID string
}
