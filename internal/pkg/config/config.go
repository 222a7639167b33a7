package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "productr-dev-secret"

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=720h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Twilio TwilioConfig
	OTP    OTPConfig
	Notify NotifyConfig
	HTTP   HTTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=productr"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT, default=587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM"`
}

type TwilioConfig struct {
	AccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	BaseURL     string `env:"TWILIO_BASE_URL, default=https://api.twilio.com"`
}

type OTPConfig struct {
	TTL         time.Duration `env:"OTP_TTL,          default=10m"`
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS, default=5"`
}

type NotifyConfig struct {
	Timeout            time.Duration `env:"NOTIFY_TIMEOUT,           default=20s"`
	DefaultCountryCode string        `env:"SMS_DEFAULT_COUNTRY_CODE, default=91"`
	SMSDevFallback     bool          `env:"SMS_DEV_FALLBACK,         default=true"`
	WelcomeWorkers     int           `env:"WELCOME_WORKERS,          default=2"`
}

type HTTPConfig struct {
	BodyLimit       string        `env:"BODY_LIMIT,        default=10M"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX,    default=100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	CORSOrigins     []string      `env:"CORS_ORIGINS,      default=*"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return isProductionEnv(c.Env)
}

func isProductionEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return true
	}
	return false
}

// Load reads configuration from the process environment. Outside production a
// .env file in the working directory is loaded first when present.
func Load(ctx context.Context) (*Config, error) {
	if !isProductionEnv(os.Getenv("ENV")) {
		_ = godotenv.Load()
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = devJWTSecret
	}
	// The SMS fallback hands the code back to the caller; never in production.
	if cfg.IsProduction() {
		cfg.Notify.SMSDevFallback = false
	}
	cfg.Twilio.BaseURL = strings.TrimRight(cfg.Twilio.BaseURL, "/")
	cfg.Notify.DefaultCountryCode = strings.TrimPrefix(strings.TrimSpace(cfg.Notify.DefaultCountryCode), "+")

	return &cfg, nil
}
