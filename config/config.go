package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	AllowedOrigins []string

	MongoURI string
	DBUser   string
	DBPass   string
	DBHost   string
	DBName   string

	AccessTokenSecret string
	TokenTTL          time.Duration
	TokenRateRPS      float64
	TokenRateBurst    int

	StripeSecretKey string
	PaymentCurrency string

	EmailSenderAPIKey string
	EmailSender       string
	EmailSenderName   string
	ClinicAddress     []string
	UnsubscribeURL    string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	JobsEnabled       bool
	ReconcileSchedule string

	DefaultAvailableDate string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),

		MongoURI: getEnv("MONGO_URI", ""),
		DBUser:   getEnv("DB_USER", ""),
		DBPass:   getEnv("DB_PASS", ""),
		DBHost:   getEnv("DB_HOST", "cluster0.nhpml.mongodb.net"),
		DBName:   getEnv("DB_NAME", "doctors_portal"),

		AccessTokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:          getEnvAsDuration("TOKEN_TTL", time.Hour),
		TokenRateRPS:      getEnvAsFloat("TOKEN_RATE_RPS", 5),
		TokenRateBurst:    getEnvAsInt("TOKEN_RATE_BURST", 10),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		PaymentCurrency: strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),

		EmailSenderAPIKey: getEnv("EMAIL_SENDER_API_KEY", ""),
		EmailSender:       getEnv("EMAIL_SENDER", ""),
		EmailSenderName:   getEnv("EMAIL_SENDER_NAME", "Doctors Portal"),
		ClinicAddress:     getEnvAsList("CLINIC_ADDRESS", []string{"Andor killa Bandorban", "Bangladesh"}),
		UnsubscribeURL:    getEnv("UNSUBSCRIBE_URL", "https://web.programming-hero.com"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 10*time.Minute),

		JobsEnabled:       getEnvAsBool("JOBS_ENABLED", true),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "*/15 * * * *"),

		DefaultAvailableDate: getEnv("DEFAULT_AVAILABLE_DATE", "May 14, 2022"),
	}
	if cfg.MongoURI == "" && cfg.DBUser != "" {
		cfg.MongoURI = composeMongoURI(cfg.DBUser, cfg.DBPass, cfg.DBHost)
	}
	return cfg
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("config: MONGO_URI or DB_USER/DB_PASS is required")
	}
	if c.AccessTokenSecret == "" {
		return errors.New("config: ACCESS_TOKEN_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func composeMongoURI(user, pass, host string) string {
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// lists are separated by ';' so address lines may contain commas
func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
