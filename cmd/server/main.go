package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/accounts/internal/config"
	"github.com/vedran77/accounts/internal/database"
	"github.com/vedran77/accounts/internal/repository"
	mongorepo "github.com/vedran77/accounts/internal/repository/mongo"
	postgresrepo "github.com/vedran77/accounts/internal/repository/postgres"
	"github.com/vedran77/accounts/internal/service"
	"github.com/vedran77/accounts/internal/transport/http/handlers"
	"github.com/vedran77/accounts/internal/transport/http/router"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(runAndFlush(cfg, logger))
}

// runAndFlush returns the process exit code. The logger is synced before
// returning because os.Exit skips deferred calls.
func runAndFlush(cfg *config.Config, logger *zap.Logger) int {
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	users, ping, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Services
	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	accounts := service.NewAccountService(users, service.NewBcryptHasher(cfg.BcryptCost), tokens)

	// Routes
	handler := router.New(router.Deps{
		Users:          handlers.NewUserHandler(accounts, logger),
		Health:         handlers.NewHealthHandler(ping, logger),
		Tokens:         tokens,
		UserFinder:     users,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects the configured driver and prepares its indexes or schema.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.UserRepository, handlers.Pinger, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("connected to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

		repo := postgresrepo.NewUserRepo(pool, cfg.DBTimeout)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("ensuring schema: %w", err)
		}
		return repo, pool.Ping, pool.Close, nil

	default:
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("connected to mongo", zap.String("db", cfg.MongoDBName))

		closeClient := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("disconnecting mongo", zap.Error(err))
			}
		}

		repo := mongorepo.NewUserRepo(client.Database(cfg.MongoDBName), cfg.DBTimeout)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeClient()
			return nil, nil, nil, fmt.Errorf("ensuring indexes: %w", err)
		}
		ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return repo, ping, closeClient, nil
	}
}
