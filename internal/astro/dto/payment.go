package dto

import "time"

type ConfirmPaymentInput struct {
	OrderID   string `json:"orderID" validate:"required,max=64"`
	ProductID string `json:"paypalProductId" validate:"required,max=64"`
}

type ConfirmPaymentOutput struct {
	Success          bool   `json:"success"`
	OrderID          string `json:"orderID"`
	CreditsAdded     int    `json:"creditsAdded"`
	Credits          int    `json:"credits"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}

type CreateOrderInput struct {
	PackageID string `json:"package_id" validate:"required"`
}

type CreateOrderOutput struct {
	OrderID    string `json:"orderID"`
	Status     string `json:"status"`
	ApproveURL string `json:"approveUrl,omitempty"`
}

type PackageOutput struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Credits         int    `json:"credits"`
	Price           string `json:"price"`
	PayPalProductID string `json:"paypalProductId"`
}

type TransactionOutput struct {
	ID              string    `json:"id"`
	PackageID       string    `json:"package_id"`
	CreditsAdded    int       `json:"credits_added"`
	AmountUSD       string    `json:"amount_usd"`
	ExternalOrderID string    `json:"paypal_order_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type WebhookOutput struct {
	Received bool   `json:"received"`
	Handled  bool   `json:"handled"`
	Event    string `json:"event,omitempty"`
}
