// @title           Membership API
// @version         1.0
// @description     Fitness-studio membership service: login, registration workflow, self-service and admin endpoints.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pubfit/membership-api/internal/api"
	"github.com/pubfit/membership-api/internal/core/ports"
	"github.com/pubfit/membership-api/internal/core/service"
	"github.com/pubfit/membership-api/internal/infrastructure/db/mongo"
	"github.com/pubfit/membership-api/internal/infrastructure/db/postgres"
	"github.com/pubfit/membership-api/internal/infrastructure/db/redis"
	"github.com/pubfit/membership-api/internal/infrastructure/http/handlers"
	"github.com/pubfit/membership-api/internal/infrastructure/queue"
	"github.com/pubfit/membership-api/internal/infrastructure/storage/s3"
	"github.com/pubfit/membership-api/internal/pkg/config"
	"github.com/pubfit/membership-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// The singleton may not be initialised yet when config loading fails.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "membership-api",
		Env:     cfg.Env,
	})

	// --- Postgres ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	store := postgres.NewStore(db)

	// --- MongoDB ---
	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	audit := mongo.NewAuditRepository(mongoDB)
	if err := audit.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	dedup := redis.NewSubmissionDedup(rdb, cfg.Registration.DedupTTL)

	// --- RabbitMQ ---
	var (
		notifier   ports.DecisionNotifier = queue.NoopNotifier{}
		dispatcher *queue.Dispatcher
	)
	if cfg.RabbitMQ.URL != "" {
		conn, err := queue.Connect(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		dispatcher = queue.NewDispatcher(conn.Channel(), 0, logger.For("dispatcher"))
		// Outlives the signal context; closed only after in-flight requests finish.
		dispatcher.Start(context.Background())
		notifier = dispatcher
	} else {
		log.Info().Msg("RABBITMQ_URL not set, registration decisions are not published")
	}

	// --- Object storage ---
	var images ports.ImageStore
	if cfg.S3.Bucket != "" {
		imageStore, err := s3.NewImageStore(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		images = imageStore
	} else {
		log.Info().Msg("S3_BUCKET not set, profile image uploads are disabled")
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(store, tokens, service.AuthConfig{
		BcryptCost:    cfg.Auth.BcryptCost,
		AdminUsername: cfg.Auth.AdminUsername,
		AdminPassword: cfg.Auth.AdminPassword,
		AdminPhone:    cfg.Auth.AdminPhone,
	}, logger.For("auth"))
	if err := authSvc.EnsureAdmin(ctx); err != nil {
		return err
	}

	regCfg := service.RegistrationConfig{TempPassword: cfg.Registration.TempPassword, BcryptCost: cfg.Auth.BcryptCost}
	registrations := service.NewRegistrationService(store, dedup, audit, notifier, regCfg, logger.For("registration"))
	members := service.NewMemberService(store, images, logger.For("member"))
	admin := service.NewAdminService(store, images, regCfg, logger.For("admin"))

	e := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Registrations: registrations,
		Members:       members,
		Admin:         admin,
		Tokens:        tokens,
		HealthChecks: []handlers.Check{
			handlers.PostgresCheck(db),
			handlers.MongoCheck(mongoDB),
			handlers.RedisCheck(rdb),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
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
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	waitDispatcher(shutdownCtx, dispatcher, log)
	return nil
}

// waitDispatcher stops decision intake and blocks until the queue is flushed
// or ctx expires.
func waitDispatcher(ctx context.Context, d *queue.Dispatcher, log zerolog.Logger) {
	if d == nil {
		return
	}
	d.Close()
	select {
	case <-d.Done():
	case <-ctx.Done():
		log.Warn().Msg("decision dispatcher did not drain before shutdown timeout")
	}
}
