package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"razorpay-facade/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	Environment    string        `yaml:"environment"` // development | production
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
	TrustProxy     bool          `yaml:"trust_proxy"` // take client IP from X-Forwarded-For
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// RazorpayConfig holds the gateway credentials. KeySecret doubles as the
// HMAC key for checkout signatures and must never be logged.
type RazorpayConfig struct {
	KeyID        string        `yaml:"key_id"`
	KeySecret    string        `yaml:"key_secret"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	FetchDetails bool          `yaml:"fetch_details"` // enrich verified payments
	Fake         bool          `yaml:"fake"`          // in-memory gateway, dev only
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"` // per window per client IP
	Window   time.Duration `yaml:"window"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"` // empty disables tracing export
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Razorpay  RazorpayConfig  `yaml:"razorpay"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	Runtime RuntimeConfig `yaml:"-"`
}

// Load builds the configuration from, in order of precedence: process
// environment (including a .env file if present), then the optional YAML file
// at path, then defaults. Missing gateway credentials are a fatal
// domain.ErrConfiguration.
func Load(path string, dev bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	cfg.Razorpay.FetchDetails = true
	cfg.RateLimit.Enabled = true

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// env-only deployments have no file
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setStr(&cfg.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setStr(&cfg.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	setStr(&cfg.Razorpay.BaseURL, "RAZORPAY_BASE_URL")
	setStr(&cfg.Server.Environment, "NODE_ENV")
	setStr(&cfg.Server.Environment, "APP_ENV")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Log.Format, "LOG_FORMAT")
	setStr(&cfg.Redis.URL, "REDIS_URL")
	setStr(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: PORT=%q is not a valid port", domain.ErrConfiguration, v)
		}
		cfg.Server.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("RAZORPAY_FETCH_DETAILS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: RAZORPAY_FETCH_DETAILS=%q", domain.ErrConfiguration, v)
		}
		cfg.Razorpay.FetchDetails = b
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = "development"
	}
	cfg.Server.RequestTimeout = normalizeDuration(cfg.Server.RequestTimeout, 15*time.Second)
	cfg.Server.ShutdownGrace = normalizeDuration(cfg.Server.ShutdownGrace, 10*time.Second)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Razorpay.BaseURL == "" {
		cfg.Razorpay.BaseURL = "https://api.razorpay.com/v1"
	}
	cfg.Razorpay.BaseURL = strings.TrimRight(cfg.Razorpay.BaseURL, "/")
	cfg.Razorpay.Timeout = normalizeDuration(cfg.Razorpay.Timeout, 15*time.Second)

	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 60
	}
	cfg.RateLimit.Window = normalizeDuration(cfg.RateLimit.Window, time.Minute)

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "razorpay-facade"
	}
}

// Validate enforces the startup invariants: both gateway credentials present,
// except that the in-memory gateway (dev only) needs no key id.
func (c *Config) Validate() error {
	if c.Razorpay.KeySecret == "" {
		return fmt.Errorf("%w: RAZORPAY_KEY_SECRET is not set", domain.ErrConfiguration)
	}
	if c.Razorpay.Fake && !c.Runtime.Dev {
		return fmt.Errorf("%w: razorpay.fake requires -dev", domain.ErrConfiguration)
	}
	if c.Razorpay.KeyID == "" && !c.Razorpay.Fake {
		return fmt.Errorf("%w: RAZORPAY_KEY_ID is not set", domain.ErrConfiguration)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func normalizeDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
