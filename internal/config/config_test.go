package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "SESSION_COOKIE", "SESSION_TTL_HOURS", "SMTP_PORT", "NOTIFY_DEPOSIT_DECLINE", "NOTIFY_WITHDRAWAL_DECLINE", "IS_PROD"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "token", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.NotifyDepositDecline)
	assert.True(t, cfg.NotifyWithdrawalDecline)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_USER", "invest")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "platform")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("NOTIFY_DEPOSIT_DECLINE", "true")
	t.Setenv("NOTIFY_WITHDRAWAL_DECLINE", "false")
	t.Setenv("SMTP_PORT", "not-a-port")
	cfg := LoadConfig()

	assert.Equal(t, "invest:s3cret@tcp(db:3307)/platform?parseTime=true", cfg.DSN())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.NotifyDepositDecline)
	assert.False(t, cfg.NotifyWithdrawalDecline)
	assert.Equal(t, 587, cfg.SMTPPort, "garbage falls back to the default")
}
