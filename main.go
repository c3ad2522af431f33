package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialhub/internal/app"
	"socialhub/internal/config"
	"socialhub/internal/database"
	"socialhub/internal/repositories"
	"socialhub/internal/services"
	"socialhub/pkg/natsbus"
	"socialhub/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/streadway/amqp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server gracefully stopped")
}

// run owns every resource so the deferred closes execute on all exit paths.
func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(cfg.Env)

	ctx := context.Background()

	// --- Initialize Stores ---
	deps, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	// --- Initialize Event Publisher ---
	events, closeEvents, err := openEvents(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s event publisher: %w", cfg.EventsDriver, err)
	}
	defer closeEvents()

	deps.Tokens = services.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	deps.Events = events
	deps.BcryptCost = cfg.BcryptCost

	// --- Initialize Fiber App ---
	application := app.NewApp(app.Options{
		CORSOrigins:  cfg.CORSOrigins,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequestLog:   true,
	}, deps)

	// --- Start HTTP Server ---
	slog.Info("Starting server", "port", cfg.AppPort, "store", cfg.StoreDriver, "events", cfg.EventsDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(application, cfg.AppPort, quit, cfg.ShutdownTimeout)
}

// serve listens on addr until a signal arrives on quit, then shuts the app
// down. A listen failure is returned instead.
func serve(application *fiber.App, addr string, quit <-chan os.Signal, shutdownTimeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- application.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
	}

	slog.Info("Shutting down server...")
	if err := application.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("error during Fiber shutdown: %w", err)
	}
	return nil
}

// initLogger installs a text handler for local development and JSON elsewhere.
func initLogger(env string) {
	var handler slog.Handler
	if env == "local" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

// openStores builds the user and post repositories for cfg.StoreDriver.
func openStores(ctx context.Context, cfg *config.Config) (app.Dependencies, func(), error) {
	deps := app.Dependencies{StoreName: cfg.StoreDriver}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.ConnectTimeout)
		if err != nil {
			return deps, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting MongoDB", "error", err)
			}
		}

		db := client.Database(cfg.MongoDatabase)
		users := repositories.NewMongoUserRepository(db)
		posts := repositories.NewMongoPostRepository(db)

		indexCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if err := errors.Join(users.EnsureIndexes(indexCtx), posts.EnsureIndexes(indexCtx)); err != nil {
			closeFn()
			return deps, nil, fmt.Errorf("failed to create indexes: %w", err)
		}

		deps.Users, deps.Posts = users, posts
		deps.StorePing = database.PingMongo(client)
		slog.Info("MongoDB store ready", "database", cfg.MongoDatabase)
		return deps, closeFn, nil

	case config.StorePostgres, config.StoreSQLite:
		db, err := database.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return deps, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		deps.Users = repositories.NewGORMUserRepository(db)
		deps.Posts = repositories.NewGORMPostRepository(db)
		deps.StorePing = database.PingGORM(db)
		return deps, closeFn, nil

	default:
		slog.Warn("Using in-memory store; data is lost on restart")
		deps.Users = repositories.NewInMemoryUserRepository()
		deps.Posts = repositories.NewInMemoryPostRepository()
		return deps, func() {}, nil
	}
}

// openEvents connects the configured broker and starts the activity
// consumer that logs every published event.
func openEvents(cfg *config.Config) (services.EventPublisher, func(), error) {
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, nil, err
		}

		// --- Start RabbitMQ Consumer ---
		messageHandler := func(msg amqp.Delivery) error {
			slog.Info("Activity event", "subject", msg.RoutingKey, "tag", msg.DeliveryTag, "body", string(msg.Body))
			return nil
		}
		if err := mqClient.ConsumeEvents(messageHandler); err != nil {
			slog.Error("Failed to start RabbitMQ consumer", "error", err)
		}
		return mqClient, func() {
			if err := mqClient.Close(); err != nil {
				slog.Error("Error closing RabbitMQ client", "error", err)
			}
		}, nil

	case config.EventsNATS:
		bus, err := natsbus.Connect(cfg.NatsURL)
		if err != nil {
			return nil, nil, err
		}
		if _, err := bus.Subscribe(">", func(msg *nats.Msg) {
			slog.Info("Activity event", "subject", msg.Subject, "body", string(msg.Data))
		}); err != nil {
			slog.Error("Failed to start NATS subscriber", "error", err)
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				slog.Error("Error closing NATS connection", "error", err)
			}
		}, nil

	default:
		return services.NoopPublisher{}, func() {}, nil
	}
}
