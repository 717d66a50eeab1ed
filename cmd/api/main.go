package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"unisms/internal/cache"
	"unisms/internal/config"
	"unisms/internal/database"
	"unisms/internal/handlers"
	"unisms/internal/jobs"
	"unisms/internal/log"
	"unisms/internal/metrics"
	"unisms/internal/queue"
	"unisms/internal/repository"
	"unisms/internal/server"
	"unisms/internal/service"
	"unisms/internal/sms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, cache and archiving disabled")
			redisClient = nil
		}
	}

	m := metrics.New()
	channel := sms.NewChannel(cfg.SMS, logger)

	students := repository.NewStudentRepository(dbPool)
	teachers := repository.NewTeacherRepository(dbPool)
	admins := repository.NewAdminRepository(dbPool)
	ledgerRepo := repository.NewLedgerRepository(dbPool)
	producer := queue.NewProducer(redisClient, cfg.Worker.Stream, cfg.Worker.SigningSecret)

	seeder := service.NewSeeder(admins, redisClient, cfg.Admin, logger)
	if err := seeder.EnsureDefaultAdmin(ctx); err != nil {
		logger.Fatal().Err(err).Msg("default admin seed failed")
	}

	directory := service.NewDirectoryService(students, teachers, ledgerRepo, redisClient, logger)
	ledger := service.NewLedgerService(ledgerRepo, producer, logger).WithStatisticsInvalidator(directory)
	notifications := service.NewNotificationService(
		service.NewResolver(students, teachers),
		service.NewDispatcher(channel, cfg.SMS.MaxConcurrency, m, logger),
		ledger,
		m,
		logger,
	)

	handlerSet := handlers.NewHandlerSet(logger, handlers.Services{
		Auth:          service.NewAuthService(students, teachers, admins, cfg.Security, logger),
		Profiles:      service.NewProfileService(students, teachers, logger),
		Directory:     directory,
		Notifications: notifications,
		History:       ledger,
	}, handlers.Options{
		Environment: cfg.Environment,
		JWTSecret:   cfg.Security.JWTSecret,
		Metrics:     m.Handler(),
		DB:          dbPool,
		Cache:       redisClient,
	})

	// A recovered panic means in-process state can no longer be trusted.
	var defect atomic.Bool
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, func(any) {
		defect.Store(true)
		cancel()
	})

	var scheduler *jobs.Scheduler
	if redisClient != nil {
		scheduler = jobs.NewScheduler(cfg.Jobs.StatisticsSnapshot, directory, producer, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			defect.Store(true)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdown(logger, httpServer, scheduler, dbPool, redisClient)

	if defect.Load() {
		logger.Error().Msg("exiting after unrecoverable failure")
		os.Exit(1)
	}
}

func shutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited")
}
