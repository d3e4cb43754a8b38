package handler

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	localsEmail = "session_email"
	localsName  = "session_name"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://www.paypal.com https://www.sandbox.paypal.com https://www.google.com https://www.gstatic.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self' https://api-m.paypal.com https://api-m.sandbox.paypal.com https://www.google.com; " +
	"frame-src https://www.paypal.com https://www.sandbox.paypal.com https://www.google.com; " +
	"object-src 'none'; base-uri 'self'; form-action 'self'"

// suspiciousPatterns are matched case-insensitively against the decoded path
// and query values.
var suspiciousPatterns = []string{
	// SQL injection
	"select ", "union ", "insert ", "drop ", "delete from", "update ", "1=1", "or 1=1", "/*", "*/",
	// path traversal
	"../", "..\\", "/etc/passwd", "c:\\windows", "cmd.exe",
	// XSS
	"<script", "javascript:", "onerror=", "onload=", "eval(", "document.cookie", "alert(", "prompt(", "confirm(",
}

// pathPatterns probe for files and SQL comments. They also occur in ordinary
// query values such as email addresses, so only the path is checked.
var pathPatterns = []string{"--", "config.php", "wp-config", ".env", "backup", ".git"}

// opaqueParams carry provider-issued values that are never inspected.
var opaqueParams = map[string]struct{}{"code": {}, "state": {}, "token": {}}

// InstallMiddleware registers the edge chain in order: recover, request id,
// access log, IP throttle, suspicious request filter, security headers.
func InstallMiddleware(app *fiber.App, h *Handler) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(h.RequestLogger)
	app.Use(h.IPThrottle)
	app.Use(h.SuspiciousRequestFilter)
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                63072000,
		HSTSPreloadEnabled:        true,
		ContentSecurityPolicy:     contentSecurityPolicy,
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		PermissionPolicy:          "camera=(), microphone=(), geolocation=(), payment=(self \"https://www.paypal.com\")",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginOpenerPolicy:   "same-origin-allow-popups",
		CrossOriginResourcePolicy: "same-site",
	}))
}

func (h *Handler) RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	elapsed := time.Since(start)

	route := c.Path()
	if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
		route = r.Path
	}
	h.metrics.ObserveRequest(c.Method(), route, status, elapsed)

	requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	h.log.Info(c.UserContext(), "http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency_ms", elapsed.Milliseconds(),
		"request_id", requestID,
		"ip", clientIP(c),
	)
	return err
}

// IPThrottle rejects clients that exceed the per-IP request budget.
func (h *Handler) IPThrottle(c *fiber.Ctx) error {
	if h.throttle == nil {
		return c.Next()
	}

	d := h.throttle.Check(c.UserContext(), clientIP(c), c.Path())
	if d.Limit > 0 {
		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	}
	if d.Allowed {
		return c.Next()
	}

	h.metrics.RateLimited("ip")
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "rate limited",
		"userMessage": "Too many requests. Please wait a moment and try again.",
		"success":     false,
		"retryable":   true,
	})
}

// SuspiciousRequestFilter answers 403 to requests probing for injection,
// traversal or script payloads.
func (h *Handler) SuspiciousRequestFilter(c *fiber.Ctx) error {
	if pattern, ok := suspicious(c); ok {
		h.metrics.AbuseSignal()
		h.log.Warn(c.UserContext(), "suspicious request blocked",
			"ip", clientIP(c), "path", c.Path(), "pattern", pattern)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	return c.Next()
}

func suspicious(c *fiber.Ctx) (string, bool) {
	rawPath, _, _ := strings.Cut(c.OriginalURL(), "?")
	for _, v := range []string{c.Path(), rawPath} {
		if p, ok := matchAny(v, suspiciousPatterns, pathPatterns); ok {
			return p, true
		}
	}

	for key, value := range c.Queries() {
		if _, skip := opaqueParams[key]; skip {
			continue
		}
		for _, v := range []string{key, value} {
			if p, ok := matchAny(v, suspiciousPatterns); ok {
				return p, true
			}
		}
	}
	return "", false
}

func matchAny(v string, patternSets ...[]string) (string, bool) {
	if decoded, err := url.QueryUnescape(v); err == nil {
		v = decoded
	}
	v = strings.ToLower(v)
	for _, patterns := range patternSets {
		for _, p := range patterns {
			if strings.Contains(v, p) {
				return p, true
			}
		}
	}
	return "", false
}

// RequireSession authenticates the session cookie or a bearer token.
func (h *Handler) RequireSession(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	claims, err := h.auth.Authenticate(token)
	if err != nil {
		return h.fail(c, err)
	}

	c.Locals(localsEmail, claims.Email)
	c.Locals(localsName, claims.Name)
	return c.Next()
}

// RequireAdmin must run after RequireSession.
func (h *Handler) RequireAdmin(c *fiber.Ctx) error {
	if !h.auth.IsAdmin(sessionEmail(c)) {
		return h.fail(c, apperr.E("admin", apperr.ErrForbidden, nil))
	}
	return c.Next()
}

// CaptchaGate sends visitors without a verified reCAPTCHA to the verification page.
func (h *Handler) CaptchaGate(c *fiber.Ctx) error {
	if !h.opts.EnableRecaptcha || c.Cookies(CaptchaCookie) == "true" {
		return c.Next()
	}
	return c.Redirect(h.opts.AppBaseURL + "/verify?returnTo=" + url.QueryEscape(c.OriginalURL()))
}

func sessionEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(localsEmail).(string)
	return email
}

func clientIP(c *fiber.Ctx) string {
	return ratelimit.ClientIP(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"), c.IP())
}
