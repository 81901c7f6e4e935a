// @title                       Record Tracker API
// @version                     1.0
// @description                 Background-verification record tracker with role and ownership based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nsqtech/record-tracker/internal/api"
	"github.com/nsqtech/record-tracker/internal/core/ports"
	"github.com/nsqtech/record-tracker/internal/core/service"
	mongodb "github.com/nsqtech/record-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/nsqtech/record-tracker/internal/infrastructure/db/redis"
	"github.com/nsqtech/record-tracker/internal/infrastructure/http/handlers"
	"github.com/nsqtech/record-tracker/internal/infrastructure/queue"
	"github.com/nsqtech/record-tracker/internal/infrastructure/security"
	"github.com/nsqtech/record-tracker/internal/pkg/config"
	"github.com/nsqtech/record-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "record-tracker",
		Version: version,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, 5*time.Second); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	recordRepo := mongodb.NewRecordRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := recordRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Audit workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Security ---
	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.MaxAttempts, cfg.Auth.LockoutWindow)

	// --- Services ---
	authService := service.NewAuthService(userRepo, hasher, tokens, throttle, dispatcher, logger.Component("auth"))
	userService := service.NewUserService(userRepo, hasher, dispatcher, logger.Component("users"))
	recordService := service.NewRecordService(recordRepo, dispatcher, logger.Component("records"))

	if cfg.Seed.Enabled {
		created, err := userService.EnsureAdmin(ctx, ports.CreateUserInput{
			UserID:   cfg.Seed.AdminID,
			Password: cfg.Seed.AdminPassword,
			Name:     cfg.Seed.AdminName,
			Email:    cfg.Seed.AdminEmail,
		})
		if err != nil {
			return err
		}
		log.Info().Str("user_id", cfg.Seed.AdminID).Bool("created", created).Msg("admin bootstrap checked")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:      logger.Component("http"),
		Verifier: tokens,
		Auth:     authService,
		Users:    userService,
		Records:  recordService,
		Audit:    dispatcher,
		ReadinessChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		CORSOrigins: cfg.CORSOrigins(),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
