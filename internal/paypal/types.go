package paypal

import (
	"encoding/json"
	"fmt"
)

const (
	StatusCreated   = "CREATED"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"

	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
)

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	CustomID    string    `json:"custom_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Amount      *Amount   `json:"amount,omitempty"`
	Payments    *Payments `json:"payments,omitempty"`
}

type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Links         []Link         `json:"links,omitempty"`
}

// SettledAmount returns the captured amount, falling back to the purchase
// unit amount for orders whose capture details are not expanded.
func (o *Order) SettledAmount() (Amount, bool) {
	if len(o.PurchaseUnits) == 0 {
		return Amount{}, false
	}
	pu := o.PurchaseUnits[0]
	if pu.Payments != nil && len(pu.Payments.Captures) > 0 {
		return pu.Payments.Captures[0].Amount, true
	}
	if pu.Amount != nil {
		return *pu.Amount, true
	}
	return Amount{}, false
}

// ProductID is the catalog product reference stored on the first purchase unit.
func (o *Order) ProductID() string {
	if len(o.PurchaseUnits) == 0 {
		return ""
	}
	return o.PurchaseUnits[0].ReferenceID
}

// CustomID is the buyer account stored on the first purchase unit.
func (o *Order) CustomID() string {
	if len(o.PurchaseUnits) == 0 {
		return ""
	}
	return o.PurchaseUnits[0].CustomID
}

// ApproveURL returns the link the buyer follows to approve the order.
func (o *Order) ApproveURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

type CreateOrderRequest struct {
	ReferenceID string
	CustomID    string
	Description string
	Amount      Amount
}

// WebhookHeaders are the transmission headers PayPal signs a webhook with.
type WebhookHeaders struct {
	TransmissionID   string
	TransmissionTime string
	CertURL          string
	AuthAlgo         string
	TransmissionSig  string
}

func (h WebhookHeaders) Complete() bool {
	return h.TransmissionID != "" && h.TransmissionTime != "" && h.CertURL != "" &&
		h.AuthAlgo != "" && h.TransmissionSig != ""
}

type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

type CaptureResource struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	Amount            Amount `json:"amount"`
	CustomID          string `json:"custom_id"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

func (r *CaptureResource) OrderID() string {
	return r.SupplementaryData.RelatedIDs.OrderID
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if ev.EventType == "" {
		return nil, fmt.Errorf("webhook event has no event_type")
	}
	return &ev, nil
}

// Capture decodes the resource of a PAYMENT.CAPTURE.* event.
func (e *WebhookEvent) Capture() (*CaptureResource, error) {
	var res CaptureResource
	if err := json.Unmarshal(e.Resource, &res); err != nil {
		return nil, fmt.Errorf("decode capture resource: %w", err)
	}
	if res.OrderID() == "" {
		return nil, fmt.Errorf("capture resource has no related order id")
	}
	return &res, nil
}
