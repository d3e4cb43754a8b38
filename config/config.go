package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                 = "8080"
	DefaultSessionExpiryMin     = 43200
	DefaultMaxRequestsPerMinute = 60
	DefaultBlockDurationMS      = 60000
	DefaultPayPalMode           = "sandbox"
	DefaultGroqModel            = "gemma2-9b-it"
	DefaultLLMTimeoutSec        = 60
	DefaultAppBaseURL           = "http://localhost:3000"
	DefaultLogLevel             = "info"
)

type Config struct {
	Env  string
	Port string

	DBURL    string
	RedisURL string

	SessionSecret    string
	SessionExpiryMin int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AppBaseURL         string
	AdminEmails        []string

	GroqAPIKey    string
	GroqBaseURL   string
	GroqModel     string
	LLMTimeoutSec int

	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string
	PayPalWebhookID    string

	RecaptchaSecret   string
	EnableRecaptcha   bool
	MaxRequestsPerMin int
	BlockDurationMS   int

	LogLevel  string
	LogFormat string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads config/.env.dev, or config/.env.prod when ENV=production.
// Process environment variables take precedence over file values.
func Load() *Config {
	env := getEnv("ENV", "development")

	file := ".env.dev"
	if env == "production" {
		file = ".env.prod"
	}
	values, err := godotenv.Read(filepath.Join("config", file))
	if err != nil {
		log.Printf("No config file %s found, reading environment only", file)
		values = map[string]string{}
	}
	src := source{file: values}

	logFormat := "text"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Env:  env,
		Port: src.get("PORT", DefaultPort),

		DBURL:    src.must("DB_URL"),
		RedisURL: src.get("REDIS_URL", ""),

		SessionSecret:    src.must("SESSION_SECRET"),
		SessionExpiryMin: src.getInt("SESSION_EXPIRY", DefaultSessionExpiryMin),

		GoogleClientID:     src.must("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: src.must("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  src.get("GOOGLE_REDIRECT_URL", "http://localhost:"+src.get("PORT", DefaultPort)+"/api/auth/google/callback"),
		AppBaseURL:         strings.TrimRight(src.get("APP_BASE_URL", DefaultAppBaseURL), "/"),
		AdminEmails:        splitList(src.get("ADMIN_EMAILS", "")),

		GroqAPIKey:    src.must("GROQ_API_KEY"),
		GroqBaseURL:   src.get("GROQ_BASE_URL", ""),
		GroqModel:     src.get("GROQ_MODEL", DefaultGroqModel),
		LLMTimeoutSec: src.getInt("LLM_TIMEOUT_SECONDS", DefaultLLMTimeoutSec),

		PayPalClientID:     src.must("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: src.must("PAYPAL_CLIENT_SECRET"),
		PayPalMode:         payPalMode(src.get("PAYPAL_MODE", DefaultPayPalMode)),
		PayPalWebhookID:    src.get("PAYPAL_WEBHOOK_ID", ""),

		RecaptchaSecret:   src.must("RECAPTCHA_SECRET"),
		EnableRecaptcha:   src.getBool("ENABLE_RECAPTCHA_PROTECTION", false),
		MaxRequestsPerMin: src.getInt("MAX_REQUESTS_PER_MINUTE", DefaultMaxRequestsPerMinute),
		BlockDurationMS:   src.getInt("BLOCK_DURATION_MS", DefaultBlockDurationMS),

		LogLevel:  src.get("LOG_LEVEL", DefaultLogLevel),
		LogFormat: src.get("LOG_FORMAT", logFormat),
	}
}

// source resolves a key from the process environment first, then the env file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s source) get(key, defaultVal string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return defaultVal
}

func (s source) must(key string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func (s source) getInt(key string, defaultVal int) int {
	valStr := s.lookup(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func (s source) getBool(key string, defaultVal bool) bool {
	valStr := s.lookup(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func payPalMode(mode string) string {
	if strings.EqualFold(mode, "live") {
		return "live"
	}
	return DefaultPayPalMode
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
