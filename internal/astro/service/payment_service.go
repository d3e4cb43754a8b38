package service

//go:generate mockgen -destination=../../mocks/mock_payment_gateway.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service PaymentGateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/paypal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PathClient  = "client"
	PathWebhook = "webhook"

	currencyUSD = "USD"
)

// PaymentGateway is the subset of the PayPal client used for reconciliation.
type PaymentGateway interface {
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CreateOrder(ctx context.Context, req paypal.CreateOrderRequest) (*paypal.Order, error)
	VerifyWebhookSignature(ctx context.Context, h paypal.WebhookHeaders, body []byte) (bool, error)
}

// Settlement is the outcome of reconciling one order.
type Settlement struct {
	OrderID          string
	PackageID        string
	CreditsAdded     int
	Balance          int
	AlreadyProcessed bool
}

// WebhookResult reports what happened to a verified webhook delivery.
type WebhookResult struct {
	EventType  string
	Handled    bool
	Settlement *Settlement
	// Err is a permanent reconciliation failure that was acknowledged to the provider.
	Err error
}

// resolver extracts the claimed product and the buyer from a completed order.
type resolver func(order *paypal.Order) (productID, email string, err error)

// PaymentService turns confirmed provider payments into credit grants. The
// client confirmation and the provider webhook share one reconciliation
// sequence, and settlement is idempotent per external order id.
type PaymentService struct {
	gateway PaymentGateway
	ledger  *LedgerService
	repo    domain.UserRepository
	catalog *Catalog
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPaymentService(gateway PaymentGateway, ledger *LedgerService, repo domain.UserRepository,
	catalog *Catalog, log logging.Logger, m *metrics.Metrics) *PaymentService {
	if log == nil {
		log = logging.Nop()
	}
	return &PaymentService{
		gateway: gateway,
		ledger:  ledger,
		repo:    repo,
		catalog: catalog,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

func (s *PaymentService) Packages() []domain.CreditPackage {
	return s.catalog.All()
}

// Transactions returns the buyer's settled orders, newest first.
func (s *PaymentService) Transactions(ctx context.Context, email string) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, email)
}

// CreateOrder opens a provider order for packageID. The order carries the
// product id and the buyer so a webhook can settle it without the client.
func (s *PaymentService) CreateOrder(ctx context.Context, email, packageID string) (*paypal.Order, error) {
	pkg, ok := s.catalog.ByID(packageID)
	if !ok {
		return nil, apperr.E("payment.create_order", apperr.ErrUnknownProduct, nil)
	}

	order, err := s.gateway.CreateOrder(ctx, paypal.CreateOrderRequest{
		ReferenceID: pkg.ExternalProductID,
		CustomID:    email,
		Description: pkg.Name,
		Amount:      paypal.Amount{CurrencyCode: currencyUSD, Value: pkg.PriceUSD.StringFixed(2)},
	})
	if err != nil {
		s.metrics.UpstreamError("paypal")
		return nil, err
	}

	s.log.Info(ctx, "payment order created", "email", email, "package_id", pkg.ID, "order_id", order.ID)
	return order, nil
}

// ConfirmOrder settles orderID for the signed-in buyer after checkout.
func (s *PaymentService) ConfirmOrder(ctx context.Context, email, orderID, productID string) (*Settlement, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(productID) == "" {
		return nil, apperr.Validation("payment.confirm", "Missing required fields: orderID and paypalProductId are required")
	}

	settlement, err := s.reconcile(ctx, PathClient, orderID, func(order *paypal.Order) (string, string, error) {
		if owner := order.CustomID(); owner != "" && !strings.EqualFold(owner, email) {
			return "", "", apperr.Validation("payment.confirm", "This order belongs to a different account.")
		}
		if ref := order.ProductID(); ref != "" && ref != productID {
			return "", "", apperr.Validation("payment.confirm", "The order does not match the selected package.")
		}
		return productID, email, nil
	})
	if err != nil {
		s.metrics.Payment(PathClient, outcomeOf(err))
		return nil, err
	}

	if settlement.AlreadyProcessed {
		balance, err := s.ledger.Balance(ctx, email)
		if err != nil {
			return nil, err
		}
		settlement.Balance = balance
	}

	s.metrics.Payment(PathClient, settlementOutcome(settlement))
	return settlement, nil
}

// HandleWebhook verifies and processes one provider notification. It returns
// an error only when the delivery must be rejected (bad signature, malformed
// payload) or retried (transient failure). Permanent reconciliation failures
// are logged and reported in the result so the provider stops redelivering.
func (s *PaymentService) HandleWebhook(ctx context.Context, headers paypal.WebhookHeaders, body []byte) (*WebhookResult, error) {
	ok, err := s.gateway.VerifyWebhookSignature(ctx, headers, body)
	if errors.Is(err, apperr.ErrMalformedPayload) {
		s.metrics.Payment(PathWebhook, "malformed")
		return nil, err
	}
	if err != nil {
		s.metrics.UpstreamError("paypal")
		s.metrics.Payment(PathWebhook, "verify_failed")
		return nil, err
	}
	if !ok {
		s.metrics.Payment(PathWebhook, "invalid_signature")
		s.log.Warn(ctx, "webhook signature rejected", "transmission_id", headers.TransmissionID)
		return nil, apperr.E("payment.webhook", apperr.ErrInvalidSignature, nil)
	}

	event, err := paypal.ParseWebhookEvent(body)
	if err != nil {
		s.metrics.Payment(PathWebhook, "malformed")
		return nil, apperr.E("payment.webhook", apperr.ErrMalformedPayload, err)
	}

	result := &WebhookResult{EventType: event.EventType}
	if event.EventType != paypal.EventCaptureCompleted {
		s.log.Info(ctx, "webhook event ignored", "event_id", event.ID, "event_type", event.EventType)
		s.metrics.Payment(PathWebhook, "ignored")
		return result, nil
	}

	capture, err := event.Capture()
	if err != nil {
		s.metrics.Payment(PathWebhook, "malformed")
		return nil, apperr.E("payment.webhook", apperr.ErrMalformedPayload, err)
	}

	result.Handled = true
	settlement, err := s.reconcile(ctx, PathWebhook, capture.OrderID(), func(order *paypal.Order) (string, string, error) {
		productID, email := order.ProductID(), order.CustomID()
		if email == "" {
			email = capture.CustomID
		}
		if email == "" {
			return "", "", apperr.E("payment.webhook", apperr.ErrUserNotFound, errors.New("order carries no buyer reference"))
		}
		return productID, email, nil
	})
	if err != nil {
		s.metrics.Payment(PathWebhook, outcomeOf(err))
		if apperr.Retryable(err) {
			return nil, err
		}
		s.log.Error(ctx, "webhook reconciliation failed permanently",
			"event_id", event.ID, "order_id", capture.OrderID(), "error", err)
		result.Err = err
		return result, nil
	}

	s.metrics.Payment(PathWebhook, settlementOutcome(settlement))
	result.Settlement = settlement
	return result, nil
}

func (s *PaymentService) reconcile(ctx context.Context, path, orderID string, resolve resolver) (*Settlement, error) {
	log := s.log.With("path", path, "order_id", orderID)

	settled, err := s.repo.IsOrderSettled(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if settled {
		log.Info(ctx, "order already settled")
		return &Settlement{OrderID: orderID, AlreadyProcessed: true}, nil
	}

	order, err := s.gateway.GetOrder(ctx, orderID)
	if err != nil {
		s.metrics.UpstreamError("paypal")
		return nil, err
	}
	if order.Status == paypal.StatusApproved {
		order, err = s.gateway.CaptureOrder(ctx, orderID)
		if err != nil {
			s.metrics.UpstreamError("paypal")
			return nil, err
		}
	}
	if order.Status != paypal.StatusCompleted {
		log.Warn(ctx, "order not completed", "status", order.Status)
		return nil, &apperr.Error{
			Kind:    apperr.ErrPaymentNotCompleted,
			Op:      "payment.reconcile",
			Message: "Payment not completed. Status: " + order.Status,
		}
	}

	productID, email, err := resolve(order)
	if err != nil {
		return nil, err
	}

	pkg, ok := s.catalog.ByProductID(productID)
	if !ok {
		log.Warn(ctx, "unknown product on order", "product_id", productID)
		return nil, apperr.E("payment.reconcile", apperr.ErrUnknownProduct, nil)
	}

	if err := checkAmount(order, pkg); err != nil {
		log.Error(ctx, "payment amount mismatch", "email", email, "package_id", pkg.ID, "error", err)
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E("payment.reconcile", apperr.ErrUserNotFound, nil)
	}

	balance, applied, err := s.ledger.SettlePurchase(ctx, &domain.Transaction{
		ID:              uuid.NewString(),
		UserEmail:       user.Email,
		PackageID:       pkg.ID,
		CreditsAdded:    pkg.Credits,
		AmountUSD:       pkg.PriceUSD,
		ExternalOrderID: orderID,
		Status:          domain.TransactionCompleted,
		CreatedAt:       s.now(),
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		log.Info(ctx, "order settled concurrently", "email", user.Email)
		return &Settlement{OrderID: orderID, PackageID: pkg.ID, Balance: balance, AlreadyProcessed: true}, nil
	}

	log.Info(ctx, "order settled", "email", user.Email, "package_id", pkg.ID, "credits_added", pkg.Credits, "balance", balance)
	return &Settlement{OrderID: orderID, PackageID: pkg.ID, CreditsAdded: pkg.Credits, Balance: balance}, nil
}

func checkAmount(order *paypal.Order, pkg domain.CreditPackage) error {
	amount, ok := order.SettledAmount()
	if !ok {
		return apperr.E("payment.amount", apperr.ErrAmountMismatch, errors.New("order has no amount"))
	}
	if amount.CurrencyCode != "" && amount.CurrencyCode != currencyUSD {
		return apperr.E("payment.amount", apperr.ErrAmountMismatch, errors.New("unexpected currency "+amount.CurrencyCode))
	}

	paid, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return apperr.E("payment.amount", apperr.ErrAmountMismatch, err)
	}
	if !paid.Equal(pkg.PriceUSD) {
		return apperr.E("payment.amount", apperr.ErrAmountMismatch,
			errors.New("paid "+paid.StringFixed(2)+", expected "+pkg.PriceUSD.StringFixed(2)))
	}
	return nil
}

func settlementOutcome(s *Settlement) string {
	if s.AlreadyProcessed {
		return "duplicate"
	}
	return "settled"
}

func outcomeOf(err error) string {
	switch apperr.KindOf(err) {
	case apperr.ErrAmountMismatch:
		return "amount_mismatch"
	case apperr.ErrUnknownProduct:
		return "unknown_product"
	case apperr.ErrPaymentNotCompleted:
		return "not_completed"
	case apperr.ErrUserNotFound:
		return "unknown_user"
	case apperr.ErrValidation:
		return "rejected"
	case apperr.ErrUpstreamUnavailable, apperr.ErrStoreUnavailable:
		return "transient_error"
	default:
		return "error"
	}
}
