package handler

import (
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/paypal"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Packages(c *fiber.Ctx) error {
	pkgs := h.payments.Packages()
	out := make([]dto.PackageOutput, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, dto.PackageOutput{
			ID:              p.ID,
			Name:            p.Name,
			Credits:         p.Credits,
			Price:           p.PriceUSD.StringFixed(2),
			PayPalProductID: p.ExternalProductID,
		})
	}
	return c.JSON(fiber.Map{"packages": out})
}

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var input dto.CreateOrderInput
	if err := h.parse(c, "payment.create_order", "Please choose a credit package.", &input); err != nil {
		return h.fail(c, err)
	}

	order, err := h.payments.CreateOrder(c.UserContext(), sessionEmail(c), input.PackageID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateOrderOutput{
		OrderID:    order.ID,
		Status:     order.Status,
		ApproveURL: order.ApproveURL(),
	})
}

// ConfirmPayment settles an order the buyer approved in the checkout popup.
func (h *Handler) ConfirmPayment(c *fiber.Ctx) error {
	var input dto.ConfirmPaymentInput
	if err := h.parse(c, "payment.confirm", "Missing required fields: orderID and paypalProductId are required", &input); err != nil {
		return h.fail(c, err)
	}

	settlement, err := h.payments.ConfirmOrder(c.UserContext(), sessionEmail(c), input.OrderID, input.ProductID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(dto.ConfirmPaymentOutput{
		Success:          true,
		OrderID:          settlement.OrderID,
		CreditsAdded:     settlement.CreditsAdded,
		Credits:          settlement.Balance,
		AlreadyProcessed: settlement.AlreadyProcessed,
	})
}

// PaymentWebhook receives PayPal notifications. A 5xx response makes PayPal
// redeliver; everything else is final.
func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	headers := paypal.WebhookHeaders{
		TransmissionID:   c.Get("Paypal-Transmission-Id"),
		TransmissionTime: c.Get("Paypal-Transmission-Time"),
		CertURL:          c.Get("Paypal-Cert-Url"),
		AuthAlgo:         c.Get("Paypal-Auth-Algo"),
		TransmissionSig:  c.Get("Paypal-Transmission-Sig"),
	}

	body := append([]byte(nil), c.Body()...)
	result, err := h.payments.HandleWebhook(c.UserContext(), headers, body)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(dto.WebhookOutput{
		Received: true,
		Handled:  result.Handled && result.Err == nil,
		Event:    result.EventType,
	})
}

func (h *Handler) Transactions(c *fiber.Ctx) error {
	txns, err := h.payments.Transactions(c.UserContext(), sessionEmail(c))
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]dto.TransactionOutput, 0, len(txns))
	for _, t := range txns {
		out = append(out, dto.TransactionOutput{
			ID:              t.ID,
			PackageID:       t.PackageID,
			CreditsAdded:    t.CreditsAdded,
			AmountUSD:       t.AmountUSD.StringFixed(2),
			ExternalOrderID: t.ExternalOrderID,
			Status:          string(t.Status),
			CreatedAt:       t.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"transactions": out})
}
