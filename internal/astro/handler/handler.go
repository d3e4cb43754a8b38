package handler

//go:generate mockgen -destination=../../mocks/mock_captcha_verifier.go -package=mocks github.com/AnthoniusHendriyanto/askastro-service/internal/astro/handler CaptchaVerifier

import (
	"context"
	"errors"
	"strconv"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/dto"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie   = "askastro_session"
	StateCookie     = "oauth_state"
	CaptchaCookie   = "recaptcha_verified"
	limiterRetrySec = 60
)

// CaptchaVerifier checks a reCAPTCHA token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Options struct {
	AppBaseURL      string
	SecureCookies   bool
	EnableRecaptcha bool
}

type Deps struct {
	Auth     *service.AuthService
	Ledger   *service.LedgerService
	Payments *service.PaymentService
	Chat     *service.ChatService
	Profile  *service.ProfileService
	Throttle *ratelimit.Throttle
	Captcha  CaptchaVerifier
	Log      logging.Logger
	Metrics  *metrics.Metrics
	Options  Options
}

type Handler struct {
	auth     *service.AuthService
	ledger   *service.LedgerService
	payments *service.PaymentService
	chat     *service.ChatService
	profile  *service.ProfileService
	throttle *ratelimit.Throttle
	captcha  CaptchaVerifier
	log      logging.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	opts     Options
}

func NewHandler(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	return &Handler{
		auth:     d.Auth,
		ledger:   d.Ledger,
		payments: d.Payments,
		chat:     d.Chat,
		profile:  d.Profile,
		throttle: d.Throttle,
		captcha:  d.Captcha,
		log:      d.Log,
		metrics:  d.Metrics,
		validate: validator.New(),
		opts:     d.Options,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// fail writes err as the standard error body. Internal details are logged,
// never returned.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := apperr.StatusCode(err)

	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"email", sessionEmail(c),
		"upstream_status", apperr.UpstreamStatus(err),
		"error", err,
	}
	if status >= fiber.StatusInternalServerError {
		h.log.Error(c.UserContext(), "request failed", args...)
	} else {
		h.log.Warn(c.UserContext(), "request rejected", args...)
	}

	if errors.Is(err, apperr.ErrRateLimited) {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(limiterRetrySec))
	}

	kind := "internal error"
	if k := apperr.KindOf(err); k != nil {
		kind = k.Error()
	}
	return c.Status(status).JSON(dto.ErrorOutput{
		Error:       kind,
		UserMessage: apperr.UserMessage(err),
		Success:     false,
		Retryable:   apperr.Retryable(err),
	})
}

func (h *Handler) parse(c *fiber.Ctx, op, message string, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation(op, message)
	}
	if err := h.validate.Struct(out); err != nil {
		return &apperr.Error{Kind: apperr.ErrValidation, Op: op, Message: message, Err: err}
	}
	return nil
}
