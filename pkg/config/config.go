package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mail providers accepted in MAIL_PROVIDER.
const (
	ProviderMailerSend = "mailersend"
	ProviderMailgun    = "mailgun"
	ProviderSMTP       = "smtp"
	ProviderLog        = "log"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server    ServerConfig
	Investor  InvestorConfig
	Mail      MailConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
	Leads     LeadsConfig

	environ map[string]string
}

type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// TrustedProxyHops is how many reverse proxies append to X-Forwarded-For.
	// Zero ignores forwarding headers.
	TrustedProxyHops int `env:"TRUSTED_PROXY_HOPS" envDefault:"0"`
}

// InvestorConfig drives the investor access gate.
type InvestorConfig struct {
	CodeSecret     string `env:"INVESTOR_CODE_SECRET"`
	CodeTTLMinutes int    `env:"INVESTOR_CODE_TTL_MIN" envDefault:"15"`
	NotifyTo       string `env:"INVESTOR_NOTIF_TO" envDefault:"investor@vitalos.co.uk"`
	NotifyFrom     string `env:"INVESTOR_NOTIF_FROM" envDefault:"Vitalos <noreply@vitalos.co.uk>"`
	// DevEchoCode returns the generated code in the issuer response. Never in production.
	DevEchoCode bool `env:"INVESTOR_DEV_ECHO_CODE" envDefault:"false"`
}

type MailConfig struct {
	Provider      string        `env:"MAIL_PROVIDER" envDefault:"mailersend"`
	MailerSendKey string        `env:"MAILERSEND_API_KEY"`
	MailgunAPIKey string        `env:"MAILGUN_API_KEY"`
	MailgunDomain string        `env:"MAILGUN_DOMAIN"`
	SMTPHost      string        `env:"SMTP_HOST"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string        `env:"SMTP_USER"`
	SMTPPass      string        `env:"SMTP_PASS"`
	SMTPUseTLS    bool          `env:"SMTP_USE_TLS" envDefault:"false"`
	Timeout       time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
}

type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

// LeadsConfig is read by the leads consumer only.
type LeadsConfig struct {
	Port string `env:"LEADS_PORT" envDefault:"8086"`
}

type RateLimitConfig struct {
	RedisURL string        `env:"REDIS_URL"`
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"5"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads .env (if present) and then the process environment.
// Required secrets are not enforced here; see Missing.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom builds a Config from an explicit environment map.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{environ: environ}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	switch cfg.Mail.Provider {
	case ProviderMailerSend, ProviderMailgun, ProviderSMTP, ProviderLog:
	default:
		return nil, fmt.Errorf("config: unknown MAIL_PROVIDER %q", cfg.Mail.Provider)
	}

	if cfg.Investor.CodeTTLMinutes <= 0 {
		return nil, errors.New("config: INVESTOR_CODE_TTL_MIN must be positive")
	}
	if cfg.Investor.DevEchoCode && cfg.Env == "production" {
		return nil, errors.New("config: INVESTOR_DEV_ECHO_CODE must not be enabled when APP_ENV=production")
	}
	if cfg.Server.TrustedProxyHops < 0 {
		return nil, errors.New("config: TRUSTED_PROXY_HOPS must not be negative")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, errors.New("config: RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return cfg, nil
}

// CodeWindow is the width of one code time bucket.
func (c *Config) CodeWindow() time.Duration {
	return time.Duration(c.Investor.CodeTTLMinutes) * time.Minute
}

// Missing lists every required key that is unset, mail keys first.
func (c *Config) Missing() []string {
	missing := c.Mail.Missing()
	return append(missing, c.Investor.Missing()...)
}

// IssuerMissing is Missing for the code issuer, which needs mail and the secret.
func (c *Config) IssuerMissing() []string {
	return c.Missing()
}

// VerifierMissing is Missing for the verifier, which only needs the secret.
func (c *Config) VerifierMissing() []string {
	return c.Investor.Missing()
}

func (i InvestorConfig) Missing() []string {
	if strings.TrimSpace(i.CodeSecret) == "" {
		return []string{"INVESTOR_CODE_SECRET"}
	}
	return nil
}

func (m MailConfig) Missing() []string {
	var missing []string
	switch m.Provider {
	case ProviderMailerSend:
		if m.MailerSendKey == "" {
			missing = append(missing, "MAILERSEND_API_KEY")
		}
	case ProviderMailgun:
		if m.MailgunAPIKey == "" {
			missing = append(missing, "MAILGUN_API_KEY")
		}
		if m.MailgunDomain == "" {
			missing = append(missing, "MAILGUN_DOMAIN")
		}
	case ProviderSMTP:
		if m.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
	}
	return missing
}

// EnvSeen reports the optional gate settings as configured, or the default in use.
func (c *Config) EnvSeen() map[string]string {
	return map[string]string{
		"INVESTOR_CODE_TTL_MIN": c.seen("INVESTOR_CODE_TTL_MIN", strconv.Itoa(c.Investor.CodeTTLMinutes)),
		"INVESTOR_NOTIF_TO":     c.seen("INVESTOR_NOTIF_TO", c.Investor.NotifyTo),
		"INVESTOR_NOTIF_FROM":   c.seen("INVESTOR_NOTIF_FROM", c.Investor.NotifyFrom),
		"MAIL_PROVIDER":         c.seen("MAIL_PROVIDER", c.Mail.Provider),
	}
}

func (c *Config) seen(key, value string) string {
	if raw, ok := c.environ[key]; ok && raw != "" {
		return raw
	}
	return "(default " + value + ")"
}
