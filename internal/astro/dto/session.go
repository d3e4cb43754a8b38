package dto

import "time"

type SessionOutput struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Credits      int       `json:"credits"`
	DOBCollected bool      `json:"dob_collected"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreditsInput is the balance a client believes it has. It is compared with
// the server balance and never written.
type CreditsInput struct {
	Credits *int `json:"credits" validate:"required,min=0"`
}

type CreditsOutput struct {
	Credits int  `json:"credits"`
	InSync  bool `json:"in_sync"`
}

type AdminSetBalanceInput struct {
	Email   string `json:"email" validate:"required,email"`
	Credits *int   `json:"credits" validate:"required,min=0"`
}

type BlockedIPOutput struct {
	IP               string `json:"ip"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

type CaptchaInput struct {
	Token string `json:"token"`
}

type ErrorOutput struct {
	Error       string `json:"error"`
	UserMessage string `json:"userMessage"`
	Success     bool   `json:"success"`
	Retryable   bool   `json:"retryable"`
}
