package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	SinkLog      = "log"
	SinkKafka    = "kafka"
	SinkRabbitMQ = "rabbitmq"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                  string
	HTTPAddr             string
	StoreBackend         string
	MongoURI             string
	MongoDB              string
	MongoTransactions    bool
	NotifySink           string
	KafkaBrokers         []string
	KafkaTopicPrefix     string
	AMQPURL              string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RuleCacheTTL         time.Duration
	IdempotencyTTL       time.Duration
	OutboxPollInterval   time.Duration
	OutboxRetention      time.Duration
	RetryBackoff         []time.Duration
	ReminderPollInterval time.Duration
	JWTSecret            string
	SeedFile             string
	MetricsEnabled       bool
	MetricsPath          string
}

// Load reads an optional .env file and parses configuration from the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var env envReader
	cfg := Config{
		Env:                  strings.ToLower(env.str("APP_ENV", "dev")),
		HTTPAddr:             env.str("HTTP_ADDR", ":8080"),
		StoreBackend:         strings.ToLower(env.str("STORE_BACKEND", BackendMemory)),
		MongoURI:             env.str("MONGO_URI", ""),
		MongoDB:              env.str("MONGO_DB", "hotel_booking"),
		MongoTransactions:    env.boolean("MONGO_TRANSACTIONS", false),
		NotifySink:           strings.ToLower(env.str("NOTIFY_SINK", SinkLog)),
		KafkaBrokers:         env.list("KAFKA_BROKERS"),
		KafkaTopicPrefix:     env.str("KAFKA_TOPIC_PREFIX", ""),
		AMQPURL:              env.str("AMQP_URL", ""),
		RedisAddr:            env.str("REDIS_ADDR", ""),
		RedisPassword:        env.str("REDIS_PASSWORD", ""),
		RedisDB:              env.integer("REDIS_DB", 0),
		RuleCacheTTL:         env.duration("RULE_CACHE_TTL", 5*time.Minute),
		IdempotencyTTL:       env.duration("IDEMP_TTL", 168*time.Hour),
		OutboxPollInterval:   env.duration("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxRetention:      env.duration("OUTBOX_RETENTION", 168*time.Hour),
		RetryBackoff:         env.durations("RETRY_BACKOFF", "1s,5s,30s"),
		ReminderPollInterval: env.duration("REMINDER_POLL_INTERVAL", time.Minute),
		JWTSecret:            env.str("JWT_SECRET", ""),
		SeedFile:             env.str("SEED_FILE", ""),
		MetricsEnabled:       env.boolean("METRICS_ENABLED", true),
		MetricsPath:          env.str("METRICS_PATH", "/metrics"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI is required for the mongo backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}
	switch c.NotifySink {
	case SinkLog:
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: KAFKA_BROKERS is required for the kafka sink", ErrInvalidConfig)
		}
	case SinkRabbitMQ:
		if c.AMQPURL == "" {
			return fmt.Errorf("%w: AMQP_URL is required for the rabbitmq sink", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown NOTIFY_SINK %q", ErrInvalidConfig, c.NotifySink)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("%w: JWT_SECRET is required in %s", ErrInvalidConfig, c.Env)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	switch c.Env {
	case "dev", "local", "test":
		return true
	}
	return false
}

// envReader reads typed variables and collects every parse error, so a bad
// deployment reports all of its mistakes at once.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

// durations parses a comma separated backoff schedule such as "1s,5s,30s".
func (r *envReader) durations(key, def string) []time.Duration {
	var out []time.Duration
	for _, item := range strings.Split(r.str(key, def), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		d, err := time.ParseDuration(item)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s component %q: %w", key, item, err))
			continue
		}
		out = append(out, d)
	}
	return out
}

func (r *envReader) integer(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *envReader) boolean(key string, def bool) bool {
	raw := strings.ToLower(r.str(key, ""))
	switch raw {
	case "":
		return def
	case "1", "t", "true", "yes", "y", "on":
		return true
	case "0", "f", "false", "no", "n", "off":
		return false
	}
	r.errs = append(r.errs, fmt.Errorf("%s: not a boolean: %q", key, raw))
	return def
}
