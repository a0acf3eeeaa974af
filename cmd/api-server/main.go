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

	"github.com/jklhealth/caregiver-scheduling/internal/api"
	"github.com/jklhealth/caregiver-scheduling/internal/config"
	"github.com/jklhealth/caregiver-scheduling/internal/db"
	"github.com/jklhealth/caregiver-scheduling/internal/notify"
	redisclient "github.com/jklhealth/caregiver-scheduling/internal/redis"
	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

const version = "1.0.0"

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-server").Logger()
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	repo := schedule.NewPgRepository(pgPool)
	locker := redisclient.NewRedisCaregiverLocker(rdb, cfg.LockTTL)

	hub := notify.NewHub(log)
	defer hub.Close()
	notifier := notify.NewRedisNotifier(rdb, log)
	go notifier.Relay(rootCtx, hub)

	svc := schedule.NewService(repo, locker, notifier, log)

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		Hub:     hub,
		PgPool:  pgPool,
		Redis:   rdb,
		Log:     log,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
