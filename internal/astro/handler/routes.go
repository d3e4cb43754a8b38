package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)
	api.Get("/packages", h.Packages)
	api.Post("/payment-webhook", h.PaymentWebhook)
	api.Post("/captcha-verify", h.VerifyCaptcha)

	auth := api.Group("/auth")
	auth.Get("/google/login", h.CaptchaGate, h.GoogleLogin)
	auth.Get("/google/callback", h.GoogleCallback)
	auth.Post("/logout", h.Logout)
	auth.Get("/session", h.RequireSession, h.Session)

	api.Post("/chat", h.RequireSession, h.Chat)
	api.Get("/credits", h.RequireSession, h.GetCredits)
	api.Post("/credits", h.RequireSession, h.SyncCredits)
	api.Get("/user/dob", h.RequireSession, h.GetDOB)
	api.Post("/user/dob", h.RequireSession, h.UpdateDOB)
	api.Get("/transactions", h.RequireSession, h.Transactions)
	api.Post("/payment/orders", h.RequireSession, h.CreateOrder)
	api.Post("/payment-confirm", h.RequireSession, h.ConfirmPayment)

	// Admin-only endpoints
	admin := api.Group("/admin", h.RequireSession, h.RequireAdmin)
	admin.Get("/security", h.SecurityMonitor)
	admin.Post("/credits", h.AdminSetCredits)
}

// RegisterMetrics exposes the prometheus registry at /metrics.
func RegisterMetrics(app *fiber.App, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
