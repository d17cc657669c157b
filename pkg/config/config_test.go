package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Investor.CodeTTLMinutes)
	assert.Equal(t, 15*time.Minute, cfg.CodeWindow())
	assert.Equal(t, "investor@vitalos.co.uk", cfg.Investor.NotifyTo)
	assert.Equal(t, ProviderMailerSend, cfg.Mail.Provider)
	assert.False(t, cfg.Investor.DevEchoCode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0, cfg.Server.TrustedProxyHops)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"INVESTOR_CODE_TTL_MIN":  "5",
		"INVESTOR_DEV_ECHO_CODE": "1",
		"CORS_ALLOWED_ORIGINS":   "https://vitalos.co.uk,http://localhost:5173",
		"MAIL_PROVIDER":          "SMTP",
		"SMTP_HOST":              "localhost",
		"MAIL_TIMEOUT":           "3s",
		"TRUSTED_PROXY_HOPS":     "1",
	})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.CodeWindow())
	assert.True(t, cfg.Investor.DevEchoCode)
	assert.Equal(t, []string{"https://vitalos.co.uk", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ProviderSMTP, cfg.Mail.Provider)
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, 1, cfg.Server.TrustedProxyHops)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero ttl", map[string]string{"INVESTOR_CODE_TTL_MIN": "0"}},
		{"non numeric ttl", map[string]string{"INVESTOR_CODE_TTL_MIN": "soon"}},
		{"unknown provider", map[string]string{"MAIL_PROVIDER": "pigeon"}},
		{"echo in production", map[string]string{"APP_ENV": "production", "INVESTOR_DEV_ECHO_CODE": "true"}},
		{"bad rate limit window", map[string]string{"RATE_LIMIT_WINDOW": "0s"}},
		{"negative proxy hops", map[string]string{"TRUSTED_PROXY_HOPS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{"nothing set", map[string]string{}, []string{"MAILERSEND_API_KEY", "INVESTOR_CODE_SECRET"}},
		{"secret only", map[string]string{"INVESTOR_CODE_SECRET": "s"}, []string{"MAILERSEND_API_KEY"}},
		{"key only", map[string]string{"MAILERSEND_API_KEY": "k"}, []string{"INVESTOR_CODE_SECRET"}},
		{"all set", map[string]string{"MAILERSEND_API_KEY": "k", "INVESTOR_CODE_SECRET": "s"}, nil},
		{"mailgun", map[string]string{"MAIL_PROVIDER": "mailgun", "INVESTOR_CODE_SECRET": "s"}, []string{"MAILGUN_API_KEY", "MAILGUN_DOMAIN"}},
		{"log provider", map[string]string{"MAIL_PROVIDER": "log", "INVESTOR_CODE_SECRET": "s"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Missing())
		})
	}
}

func TestVerifierMissing_IgnoresMail(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"INVESTOR_CODE_SECRET": "s"})
	require.NoError(t, err)

	assert.Empty(t, cfg.VerifierMissing())
	assert.Equal(t, []string{"MAILERSEND_API_KEY"}, cfg.IssuerMissing())
}

func TestEnvSeen(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"INVESTOR_NOTIF_TO": "ir@vitalos.co.uk"})
	require.NoError(t, err)

	seen := cfg.EnvSeen()
	assert.Equal(t, "ir@vitalos.co.uk", seen["INVESTOR_NOTIF_TO"])
	assert.Equal(t, "(default 15)", seen["INVESTOR_CODE_TTL_MIN"])
	assert.Equal(t, "(default mailersend)", seen["MAIL_PROVIDER"])
}
