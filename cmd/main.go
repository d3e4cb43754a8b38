package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/config"
	"github.com/AnthoniusHendriyanto/askastro-service/db"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/handler"
	repo "github.com/AnthoniusHendriyanto/askastro-service/internal/astro/repository/postgres"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/service"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/cache"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/captcha"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/llm"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/paypal"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	janitorInterval = 15 * time.Minute
	cacheMaxAge     = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error(ctx, "database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Error(ctx, "database migration failed", "error", err)
		os.Exit(1)
	}

	queryCache := cache.New()
	userRepo := repo.NewPostgresRepository(dbPool, cache.NewQueryLayer(dbPool, queryCache, m))

	var store ratelimit.Store = ratelimit.NewMemoryStore(time.Now)
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn(ctx, "redis unavailable, throttling in memory", "error", err)
		} else {
			defer client.Close()
			store = ratelimit.NewRedisStore(client)
		}
	}

	throttle := ratelimit.NewThrottle(store, ratelimit.ThrottleConfig{
		DefaultLimit:  cfg.MaxRequestsPerMin,
		Window:        time.Minute,
		BlockDuration: time.Duration(cfg.BlockDurationMS) * time.Millisecond,
		PathLimits:    ratelimit.DefaultPathLimits(),
		ExcludedPaths: ratelimit.DefaultExcludedPaths(),
	}, log.With("component", "throttle"))

	limiter := ratelimit.NewLimiter(ratelimit.WithAbuseHandler(func(identity string, distinctIPs int) {
		m.AbuseSignal()
		log.Warn(context.Background(), "identity seen from many IPs", "identity", identity, "distinct_ips", distinctIPs)
	}))

	completer := llm.NewClient(llm.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})
	gateway := paypal.NewClient(ctx, paypal.Config{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		Mode:         cfg.PayPalMode,
		WebhookID:    cfg.PayPalWebhookID,
	})

	tokenService := service.NewTokenService(cfg.SessionSecret, cfg.SessionExpiryMin)
	google := service.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	ledger := service.NewLedgerService(userRepo, log.With("component", "ledger"), m)
	authService := service.NewAuthService(google, ledger, tokenService, userRepo, cfg.AdminEmails, log.With("component", "auth"))
	paymentService := service.NewPaymentService(gateway, ledger, userRepo, service.DefaultCatalog(), log.With("component", "payment"), m)
	chatService := service.NewChatService(userRepo, ledger, completer, limiter, log.With("component", "chat"), m)
	profileService := service.NewProfileService(userRepo, limiter, log.With("component", "profile"), m)

	h := handler.NewHandler(handler.Deps{
		Auth:     authService,
		Ledger:   ledger,
		Payments: paymentService,
		Chat:     chatService,
		Profile:  profileService,
		Throttle: throttle,
		Captcha:  captcha.NewVerifier(cfg.RecaptchaSecret),
		Log:      log,
		Metrics:  m,
		Options: handler.Options{
			AppBaseURL:      cfg.AppBaseURL,
			SecureCookies:   cfg.IsProduction(),
			EnableRecaptcha: cfg.EnableRecaptcha,
		},
	})

	app := fiber.New(fiber.Config{
		AppName:               "askastro",
		DisableStartupMessage: cfg.IsProduction(),
	})
	handler.InstallMiddleware(app, h)
	handler.RegisterRoutes(app, h)
	handler.RegisterMetrics(app, reg)

	go ratelimit.RunJanitor(ctx, janitorInterval,
		func(context.Context) { limiter.Cleanup() },
		throttle.Prune,
		func(context.Context) { queryCache.Prune(cacheMaxAge) },
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "error", err)
	}
}
