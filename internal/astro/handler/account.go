package handler

import (
	"math"
	"sort"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const captchaTTL = 24 * time.Hour

func (h *Handler) GetCredits(c *fiber.Ctx) error {
	balance, err := h.ledger.Balance(c.UserContext(), sessionEmail(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"credits": balance})
}

// SyncCredits compares the client's view of the balance with the ledger. The
// ledger is authoritative; the declared value is never written.
func (h *Handler) SyncCredits(c *fiber.Ctx) error {
	var input dto.CreditsInput
	if err := h.parse(c, "credits.sync", "Invalid credits value", &input); err != nil {
		return h.fail(c, err)
	}

	email := sessionEmail(c)
	balance, err := h.ledger.Balance(c.UserContext(), email)
	if err != nil {
		return h.fail(c, err)
	}

	inSync := *input.Credits == balance
	if !inSync {
		h.log.Info(c.UserContext(), "client balance out of sync", "email", email, "declared", *input.Credits, "balance", balance)
	}
	return c.JSON(dto.CreditsOutput{Credits: balance, InSync: inSync})
}

func (h *Handler) VerifyCaptcha(c *fiber.Ctx) error {
	var input dto.CaptchaInput
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return h.fail(c, apperr.Validation("captcha.verify", "Missing reCAPTCHA token"))
	}

	ok, err := h.captcha.Verify(c.UserContext(), input.Token, clientIP(c))
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return h.fail(c, apperr.Validation("captcha.verify", "reCAPTCHA verification failed"))
	}

	c.Cookie(h.cookie(CaptchaCookie, "true", time.Now().Add(captchaTTL)))
	return c.JSON(fiber.Map{"success": true})
}

// SecurityMonitor lists the IPs currently blocked by the throttle.
func (h *Handler) SecurityMonitor(c *fiber.Ctx) error {
	blocked, err := h.throttle.Blocked(c.UserContext())
	if err != nil {
		return h.fail(c, apperr.Store("admin.security", err))
	}

	out := make([]dto.BlockedIPOutput, 0, len(blocked))
	for ip, remaining := range blocked {
		out = append(out, dto.BlockedIPOutput{IP: ip, RemainingSeconds: int(math.Ceil(remaining.Seconds()))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })

	return c.JSON(fiber.Map{"blocked_ips": out, "count": len(out)})
}

func (h *Handler) AdminSetCredits(c *fiber.Ctx) error {
	var input dto.AdminSetBalanceInput
	if err := h.parse(c, "admin.set_credits", "Invalid credits value", &input); err != nil {
		return h.fail(c, err)
	}

	if err := h.ledger.SetBalance(c.UserContext(), input.Email, *input.Credits); err != nil {
		return h.fail(c, err)
	}

	h.log.Warn(c.UserContext(), "balance overwritten by admin",
		"admin", sessionEmail(c), "email", input.Email, "credits", *input.Credits)
	return c.JSON(fiber.Map{"success": true, "email": input.Email, "credits": *input.Credits})
}
