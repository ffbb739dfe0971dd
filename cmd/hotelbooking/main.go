package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"hotelbooking/internal/app/auth"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/middleware"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/registry"
	"hotelbooking/internal/app/uow"
	domainbranches "hotelbooking/internal/domain/branches"
	domainpricing "hotelbooking/internal/domain/pricing"
	"hotelbooking/internal/infra/broker/kafka"
	"hotelbooking/internal/infra/broker/rabbitmq"
	rediscache "hotelbooking/internal/infra/cache/redis"
	"hotelbooking/internal/infra/config"
	mongostore "hotelbooking/internal/infra/db/mongo"
	ginserver "hotelbooking/internal/infra/http/gin"
	"hotelbooking/internal/infra/metrics"
	"hotelbooking/internal/infra/notify"
	"hotelbooking/internal/infra/obs"
	infraoutbox "hotelbooking/internal/infra/outbox"
	"hotelbooking/internal/infra/reminders"
	"hotelbooking/internal/infra/security"
	"hotelbooking/internal/infra/seed"
	"hotelbooking/internal/infra/storage/memory"
)

const serviceName = "hotelbooking"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

// setup loads configuration, .env included, before building the logger so
// APP_ENV from the file selects the log format.
func setup(envFiles ...string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("configuration invalid: %w", err)
	}
	return cfg, obs.NewLogger(cfg.Env), nil
}

// run returns instead of exiting so deferred cleanup always runs.
func run(ctx context.Context, envFiles ...string) error {
	cfg, logger, err := setup(envFiles...)
	if err != nil {
		return err
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		return err
	}
	defer app.close(logger)

	seedPath := cfg.SeedFile
	if seedPath == "" {
		seedPath = defaultSeedPath()
	}
	if _, err := app.loadSeed(ctx, seedPath, logger); err != nil {
		logger.Warn("seed load failed", "error", err, "path", seedPath)
	}

	go func() {
		if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()
	go func() {
		if err := app.reminders.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("reminder worker stopped", "error", err)
		}
	}()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreBackend, "sink", cfg.NotifySink)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}

type application struct {
	handlers  ginserver.Handlers
	health    obs.HealthHandlers
	relay     *infraoutbox.Worker
	reminders *reminders.Worker
	seed      seed.Stores
	closers   []io.Closer
	shutdown  []func(context.Context) error
}

// ruleStore is a pricing rule store the seed can insert into.
type ruleStore interface {
	domainpricing.RuleStore
	seed.RuleInserter
}

// storage is the backend-specific half of the wiring.
type storage struct {
	factory     uow.UoWFactory
	rooms       seed.RoomInserter
	rules       ruleStore
	branches    domainbranches.Repository
	outbox      outbox.Outbox
	relayStore  infraoutbox.Store
	idempotency middleware.IdempotencyStore
}

// buildApplication closes whatever it already opened when a later step fails.
func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (app *application, err error) {
	built := &application{health: obs.HealthHandlers{Checks: map[string]obs.Check{}, Timeout: 2 * time.Second}}
	defer func() {
		if err != nil {
			built.close(logger)
		}
	}()
	app = built

	store, err := app.openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var rules ruleStore = store.rules
	if cfg.RedisAddr != "" {
		client := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		rules = &rediscache.RuleCache{Next: store.rules, Client: client, TTL: cfg.RuleCacheTTL, Logger: logger}
		app.health.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		app.closers = append(app.closers, client)
		logger.Info("pricing rule cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RuleCacheTTL)
	}
	app.seed = seed.Stores{Branches: store.branches, Rooms: store.rooms, Rules: rules}

	m := metrics.New(serviceName)
	engine := domainpricing.NewEngine(rules, logger)
	engine.OnFallback = m.PricingFallback

	newID := uuid.NewString
	now := func() time.Time { return time.Now().UTC() }
	encoder := outbox.JSONEventEncoder{IDGenerator: newID}
	sink := &notify.Sink{
		UoWFactory: store.factory,
		Outbox:     store.outbox,
		Encoder:    encoder,
		Deps:       handlersupport.Deps{Now: now, NewID: newID, Logger: logger},
	}
	buses := registry.Build(registry.Components{
		UoWFactory:  store.factory,
		Rules:       rules,
		Branches:    store.branches,
		Calculator:  engine,
		Outbox:      store.outbox,
		Encoder:     encoder,
		Notifier:    sink,
		Idempotency: store.idempotency,
		Observer:    m,
		Logger:      logger,
		Now:         now,
		NewID:       newID,
	})

	producer, err := app.openProducer(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.relay = &infraoutbox.Worker{
		Store:       store.relayStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
		OnRelayed:   m.OutboxRelayed,
		Retention:   cfg.OutboxRetention,
	}
	app.reminders = &reminders.Worker{Bus: buses.Commands, Interval: cfg.ReminderPollInterval, Logger: logger}

	tokens, err := tokenService(cfg, logger)
	if err != nil {
		return nil, err
	}

	app.handlers = ginserver.Handlers{
		Pricing:        ginserver.PricingHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Rooms:          ginserver.RoomHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Booking:        ginserver.BookingHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Reviews:        ginserver.ReviewHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Branches:       ginserver.BranchHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Me:             ginserver.MeHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Admin:          ginserver.AdminHandler{Commands: buses.Commands, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Tokens: tokens, Logger: logger}.Handle,
		Metrics:        m.Gin(),
		MetricsHandler: m.Handler(),
	}
	return app, nil
}

func (a *application) openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	if cfg.StoreBackend != config.BackendMongo {
		factory := memory.NewFactory()
		rooms := memory.NewRoomRepository()
		factory.RoomsRepo = rooms
		box := memory.NewOutbox()
		logger.Info("using in-memory storage")
		return storage{
			factory:     factory,
			rooms:       rooms,
			rules:       memory.NewRuleStore(),
			branches:    memory.NewBranchRepository(),
			outbox:      box,
			relayStore:  box,
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		}, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}
	a.health.Checks["mongo"] = client.Ping
	a.shutdown = append(a.shutdown, client.Close)

	factory := client.Factory(cfg.MongoTransactions)
	rooms := mongostore.NewRoomRepository(client.DB)
	factory.RoomsRepo = rooms
	box := infraoutbox.NewMongoStore(client.DB)
	logger.Info("using mongo storage", "database", cfg.MongoDB, "transactions", cfg.MongoTransactions)
	return storage{
		factory:     factory,
		rooms:       rooms,
		rules:       mongostore.NewRuleStore(client.DB),
		branches:    mongostore.NewBranchRepository(client.DB),
		outbox:      box,
		relayStore:  box,
		idempotency: mongostore.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL),
	}, nil
}

func (a *application) openProducer(cfg config.Config, logger *slog.Logger) (infraoutbox.Producer, error) {
	switch cfg.NotifySink {
	case config.SinkKafka:
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig(serviceName))
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		a.closers = append(a.closers, producer)
		logger.Info("relaying events to kafka", "brokers", strings.Join(cfg.KafkaBrokers, ","))
		return producer, nil
	case config.SinkRabbitMQ:
		publisher := rabbitmq.NewPublisher(cfg.AMQPURL, rabbitmq.DefaultExchange)
		if err := publisher.Connect(); err != nil {
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		a.closers = append(a.closers, publisher)
		logger.Info("relaying events to rabbitmq", "exchange", rabbitmq.DefaultExchange)
		return publisher, nil
	default:
		return infraoutbox.LogProducer{Logger: logger}, nil
	}
}

// tokenService falls back to a per-process secret in development and logs a
// token for each role so the API can be exercised locally.
func tokenService(cfg config.Config, logger *slog.Logger) (security.TokenService, error) {
	svc := security.TokenService{Secret: []byte(cfg.JWTSecret), Issuer: serviceName}
	if cfg.JWTSecret != "" {
		return svc, nil
	}
	secret, err := security.RandomSecret(32)
	if err != nil {
		return security.TokenService{}, err
	}
	svc.Secret = []byte(secret)
	logger.Warn("JWT_SECRET not set, using an ephemeral secret")
	for _, p := range []auth.Principal{
		{UserID: "dev-guest", Email: "guest@example.com", Name: "Dev Guest", Role: auth.RoleGuest},
		{UserID: "dev-staff", Role: auth.RoleStaff},
		{UserID: "dev-admin", Role: auth.RoleAdmin},
	} {
		token, err := svc.Issue(p)
		if err != nil {
			return security.TokenService{}, err
		}
		logger.Info("development token", "role", p.Role, "user_id", p.UserID, "token", token)
	}
	return svc, nil
}

func (a *application) loadSeed(ctx context.Context, path string, logger *slog.Logger) (seed.Summary, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("seed file not found, skipping", "path", path)
			return seed.Summary{}, nil
		}
		return seed.Summary{}, err
	}
	f, err := seed.Load(path)
	if err != nil {
		return seed.Summary{}, err
	}
	summary, err := seed.Apply(ctx, f, a.seed, time.Now().UTC())
	if err != nil {
		return summary, err
	}
	logger.Info("seed imported",
		"path", path,
		"branches", summary.Branches,
		"rooms", summary.Rooms,
		"rules", summary.Rules,
		"existing", summary.Existing,
	)
	return summary, nil
}

func (a *application) close(logger *slog.Logger) {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, fn := range a.shutdown {
		if err := fn(ctx); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}
}

func defaultSeedPath() string {
	return filepath.Join("configs", "seed.toml")
}
