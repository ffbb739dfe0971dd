package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "HTTP_ADDR", "STORE_BACKEND", "MONGO_URI", "MONGO_DB", "MONGO_TRANSACTIONS", "NOTIFY_SINK",
	"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX", "AMQP_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"RULE_CACHE_TTL", "OUTBOX_POLL_INTERVAL", "OUTBOX_RETENTION", "RETRY_BACKOFF", "REMINDER_POLL_INTERVAL", "JWT_SECRET",
	"SEED_FILE", "METRICS_ENABLED", "METRICS_PATH", "IDEMP_TTL",
}

// clearEnv blanks every key for the test; t.Setenv restores the old values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, SinkLog, cfg.NotifySink)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, 168*time.Hour, cfg.OutboxRetention)
	assert.Equal(t, time.Minute, cfg.ReminderPollInterval)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("NOTIFY_SINK=kafka\nKAFKA_BROKERS=a:9092, b:9092\nREDIS_DB=2\n"), 0o600))
	// godotenv does not override variables that are already set, even to ""
	for _, k := range []string{"NOTIFY_SINK", "KAFKA_BROKERS", "REDIS_DB"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SinkKafka, cfg.NotifySink)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"memory dev", Config{Env: "dev", StoreBackend: BackendMemory, NotifySink: SinkLog}, true},
		{"mongo without uri", Config{Env: "dev", StoreBackend: BackendMongo, NotifySink: SinkLog}, false},
		{"kafka without brokers", Config{Env: "dev", StoreBackend: BackendMemory, NotifySink: SinkKafka}, false},
		{"rabbit without url", Config{Env: "dev", StoreBackend: BackendMemory, NotifySink: SinkRabbitMQ}, false},
		{"prod without secret", Config{Env: "prod", StoreBackend: BackendMemory, NotifySink: SinkLog}, false},
		{"prod with secret", Config{Env: "prod", StoreBackend: BackendMemory, NotifySink: SinkLog, JWTSecret: "s"}, true},
		{"unknown backend", Config{Env: "dev", StoreBackend: "sqlite", NotifySink: SinkLog}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("RULE_CACHE_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadReportsEveryBadVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "two")
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("RETRY_BACKOFF", "1s,later")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, key := range []string{"REDIS_DB", "METRICS_ENABLED", "RETRY_BACKOFF"} {
		assert.ErrorContains(t, err, key)
	}
}
