// Package paypal is a small client for the PayPal Orders and Webhooks REST APIs.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	ClientID     string
	ClientSecret string
	// Mode is "live" or "sandbox"; BaseURL overrides it when set.
	Mode      string
	BaseURL   string
	WebhookID string
	Timeout   time.Duration
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Mode == "live" {
		return LiveBaseURL
	}
	return SandboxBaseURL
}

// Client authenticates with the client-credentials grant; tokens are fetched
// and refreshed transparently by the oauth2 transport.
type Client struct {
	baseURL   string
	webhookID string
	http      *http.Client
}

// NewClient builds a client. ctx scopes token fetches and should outlive the client.
func NewClient(ctx context.Context, cfg Config) *Client {
	base := cfg.baseURL()
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	hc := cc.Client(ctx)
	hc.Timeout = cfg.Timeout
	if hc.Timeout <= 0 {
		hc.Timeout = DefaultTimeout
	}

	return &Client{baseURL: base, webhookID: cfg.WebhookID, http: hc}
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.call(ctx, "paypal.get_order", http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.call(ctx, "paypal.capture_order", http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []PurchaseUnit{{
			ReferenceID: req.ReferenceID,
			CustomID:    req.CustomID,
			Description: req.Description,
			Amount:      &req.Amount,
		}},
	}

	var out Order
	if err := c.call(ctx, "paypal.create_order", http.MethodPost, "/v2/checkout/orders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type verifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhookSignature asks PayPal whether body was signed for the
// configured webhook id. It returns false without a call when headers are
// missing, and a MalformedPayload error when body is not JSON.
func (c *Client) VerifyWebhookSignature(ctx context.Context, h WebhookHeaders, body []byte) (bool, error) {
	if !h.Complete() || c.webhookID == "" {
		return false, nil
	}
	if !json.Valid(body) {
		return false, apperr.E("paypal.verify_webhook", apperr.ErrMalformedPayload, nil)
	}

	req := verifyRequest{
		AuthAlgo:         h.AuthAlgo,
		CertURL:          h.CertURL,
		TransmissionID:   h.TransmissionID,
		TransmissionSig:  h.TransmissionSig,
		TransmissionTime: h.TransmissionTime,
		WebhookID:        c.webhookID,
		WebhookEvent:     body,
	}

	var out verifyResponse
	if err := c.call(ctx, "paypal.verify_webhook", http.MethodPost, "/v1/notifications/verify-webhook-signature", req, &out); err != nil {
		return false, err
	}
	return out.VerificationStatus == "SUCCESS", nil
}

func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return apperr.Upstream(op, rerr.Response.StatusCode, errors.New("token exchange failed"))
		}
		return apperr.Upstream(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return &apperr.Error{Kind: apperr.ErrValidation, Op: op, Status: resp.StatusCode, Message: "Order not found."}
		case http.StatusUnprocessableEntity:
			return &apperr.Error{Kind: apperr.ErrValidation, Op: op, Status: resp.StatusCode,
				Message: "The order cannot be processed.", Err: errors.New(string(detail))}
		}
		return apperr.Upstream(op, resp.StatusCode, errors.New(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
