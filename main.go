package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/jonboulle/clockwork"
	"github.com/product-analytics/application"
	_ "github.com/product-analytics/docs"
	"github.com/product-analytics/domain/trend"
	"github.com/product-analytics/infrastructure/cache"
	"github.com/product-analytics/infrastructure/config"
	"github.com/product-analytics/infrastructure/messaging/kafka"
	"github.com/product-analytics/infrastructure/messaging/worker"
	"github.com/product-analytics/infrastructure/persistence/clickhouse"
	"github.com/product-analytics/infrastructure/persistence/postgres"
	"github.com/product-analytics/infrastructure/telemetry"
	"github.com/product-analytics/presentation/api/controller"
	"github.com/product-analytics/presentation/api/middleware"
)

// @title        Product Analytics API
// @version      1.0
// @description  Event capture, actions, persons and action trends.
// @BasePath     /
// @securityDefinitions.basic  BasicAuth
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	slog.Info("Starting Product Analytics Service", "port", cfg.Server.Port)

	duplicates, err := trend.ParseDuplicatePolicy(cfg.Trends.DuplicatePolicy)
	if err != nil {
		slog.Error("Invalid trends configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("Connecting to Postgres...")
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	slog.Info("Initializing Postgres schema...")
	if err := postgres.InitSchema(ctx, pool); err != nil {
		slog.Error("Failed to initialize Postgres schema", "error", err)
		os.Exit(1)
	}

	slog.Info("Connecting to ClickHouse...")
	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		slog.Error("Failed to connect to ClickHouse", "error", err)
		os.Exit(1)
	}
	defer chClient.Close()

	slog.Info("Initializing ClickHouse schema...")
	if err := chClient.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	slog.Info("Ensuring Kafka topics exist...")
	if err := kafka.EnsureTopicsWithConfig(cfg.Kafka, kafka.CaptureTopics(cfg.Kafka)); err != nil {
		slog.Warn("Failed to ensure Kafka topics", "error", err)
	}

	slog.Info("Creating Kafka producer...")
	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	eventRepository := clickhouse.NewEventRepository(chClient.Conn(), chClient.Database())
	matcher := clickhouse.NewActionMatcher(eventRepository)
	actionRepository := postgres.NewActionRepository(pool)
	personRepository := postgres.NewPersonRepository(pool)

	accounts := cache.NewAccounts(postgres.NewAccountRepository(pool), cfg.Auth.TokenCacheTTL)
	accounts.Start()
	defer accounts.Stop()

	usage := telemetry.NewClient(cfg.Telemetry)
	defer usage.Close()

	clock := clockwork.NewRealClock()

	authService := application.NewAuthService(accounts, usage)
	captureService := application.NewCaptureService(producer, accounts, clock)
	actionService := application.NewActionService(actionRepository, matcher, usage, cfg.Trends.Concurrency)
	personService := application.NewPersonService(personRepository, eventRepository)
	eventService := application.NewEventService(eventRepository, actionRepository, matcher, personRepository)
	trendService := application.NewTrendService(actionRepository, matcher, clock, application.TrendOptions{
		Concurrency: cfg.Trends.Concurrency,
		Duplicates:  duplicates,
	})

	if cfg.Auth.BootstrapEmail != "" && cfg.Auth.BootstrapPassword != "" {
		user, err := authService.Bootstrap(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword, cfg.Auth.BootstrapTeam)
		if err != nil {
			slog.Error("Failed to bootstrap first user", "error", err)
			os.Exit(1)
		}
		if user != nil {
			slog.Info("Created first team and user", "email", user.Email, "teamID", user.TeamID)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		AppName:      "Product Analytics API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Recovery())
	app.Use(middleware.Metrics())

	app.Get("/swagger/*", swagger.HandlerDefault)

	controller.NewHealthController(app, map[string]controller.Pinger{
		"postgres":   pool,
		"clickhouse": chClient,
	})
	controller.NewMetricsController(app)
	controller.NewCaptureController(app, captureService)

	api := app.Group("/api", middleware.Auth(authService, cfg.Server.BaseURL))
	controller.NewActionController(api, actionService, trendService)
	controller.NewPersonController(api, personService)
	controller.NewEventController(api, eventService)

	eventWorker := worker.NewEventWorker(cfg.Kafka, eventRepository, personService, cfg.Worker)
	eventWorker.Start(ctx)

	retryWorker := worker.NewRetryWorker(cfg.Kafka, eventRepository, personService, cfg.Worker)
	retryWorker.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("HTTP server listening", "addr", addr)
		slog.Info("Swagger UI available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port))
		if err := app.Listen(addr); err != nil {
			slog.Error("Server error", "error", err)
		}
	}()

	sig := <-shutdown
	slog.Info("Received signal, starting graceful shutdown...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	eventWorker.Stop()
	retryWorker.Stop()

	slog.Info("Shutdown complete")
}
