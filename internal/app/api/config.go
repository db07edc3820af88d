package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	customerpostgres "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/messaging/kafka"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	KafkaBrokers []string
	KafkaTopic   string

	NotificationWorkers int
	NotificationBuffer  int

	SessionTTL time.Duration

	AdminEmail    string
	AdminPassword string

	RegistrationRatePerMinute int
	ShutdownTimeout           time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", kafka.DefaultTopic),
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		SessionTTL:        customerpostgres.DefaultSessionTTL,
		ShutdownTimeout:   10 * time.Second,
	}
	var err error
	if cfg.NotificationWorkers, err = positiveInt("NOTIFICATION_WORKERS", events.DefaultWorkers); err != nil {
		return Config{}, err
	}
	if cfg.NotificationBuffer, err = positiveInt("NOTIFICATION_BUFFER", events.DefaultBufferSize); err != nil {
		return Config{}, err
	}
	hours, err := positiveInt("SESSION_TTL_HOURS", 0)
	if err != nil {
		return Config{}, err
	}
	if hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if cfg.RegistrationRatePerMinute, err = positiveInt("REGISTRATION_RATE_PER_MINUTE", 30); err != nil {
		return Config{}, err
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
