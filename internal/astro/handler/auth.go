package handler

import (
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const stateTTL = 10 * time.Minute

// GoogleLogin starts the OAuth flow with a one-time state bound to a cookie.
func (h *Handler) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(h.cookie(StateCookie, state, time.Now().Add(stateTTL)))
	return c.Redirect(h.auth.LoginURL(state))
}

func (h *Handler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Cookies(StateCookie)
	c.ClearCookie(StateCookie)

	if errParam := c.Query("error"); errParam != "" {
		h.log.Warn(c.UserContext(), "sign-in cancelled", "reason", errParam)
		return c.Redirect(h.opts.AppBaseURL + "/?error=access_denied")
	}
	if state == "" || c.Query("state") != state {
		h.log.Warn(c.UserContext(), "sign-in state mismatch", "ip", clientIP(c))
		return c.Redirect(h.opts.AppBaseURL + "/?error=invalid_state")
	}

	signIn, err := h.auth.CompleteSignIn(c.UserContext(), c.Query("code"))
	if err != nil {
		h.log.Error(c.UserContext(), "sign-in failed", "ip", clientIP(c), "error", err)
		return c.Redirect(h.opts.AppBaseURL + "/?error=auth_failed")
	}

	c.Cookie(h.cookie(SessionCookie, signIn.Token, signIn.ExpiresAt))
	return c.Redirect(h.opts.AppBaseURL + "/")
}

func (h *Handler) Session(c *fiber.Ctx) error {
	user, err := h.auth.Session(c.UserContext(), sessionEmail(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.SessionOutput{
		Email:        user.Email,
		Name:         user.Name,
		Credits:      user.Credits,
		DOBCollected: user.DOBCollected,
		CreatedAt:    user.CreatedAt,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.cookie(SessionCookie, "", time.Unix(0, 0)))
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
