package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/messaging/kafka"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "NOTIFICATION_WORKERS", "NOTIFICATION_BUFFER",
		"SESSION_TTL_HOURS", "ADMIN_EMAIL", "ADMIN_PASSWORD", "REGISTRATION_RATE_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, kafka.DefaultTopic, cfg.KafkaTopic)
	assert.Equal(t, events.DefaultWorkers, cfg.NotificationWorkers)
	assert.Equal(t, events.DefaultBufferSize, cfg.NotificationBuffer)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.RegistrationRatePerMinute)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("NOTIFICATION_WORKERS", "8")
	t.Setenv("NOTIFICATION_BUFFER", "1024")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("ADMIN_EMAIL", "admin@bookstore.com")
	t.Setenv("ADMIN_PASSWORD", "changeme")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 8, cfg.NotificationWorkers)
	assert.Equal(t, 1024, cfg.NotificationBuffer)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "admin@bookstore.com", cfg.AdminEmail)
}

func TestLoadConfig_Rejections(t *testing.T) {
	cases := map[string]map[string]string{
		"non numeric workers": {"NOTIFICATION_WORKERS": "many"},
		"zero buffer":         {"NOTIFICATION_BUFFER": "0"},
		"negative ttl":        {"SESSION_TTL_HOURS": "-1"},
		"admin without pass":  {"ADMIN_EMAIL": "admin@bookstore.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
