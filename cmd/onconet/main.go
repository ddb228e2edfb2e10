package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freee021022/onco/db"
	"github.com/freee021022/onco/internal/auth"
	"github.com/freee021022/onco/internal/config"
	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/realtime"
	"github.com/freee021022/onco/internal/router"
	"github.com/freee021022/onco/internal/scheduler"
	"github.com/freee021022/onco/internal/storage"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newPublisher(cfg *config.Config) events.Publisher {
	var publishers events.Multi

	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Kafka events enabled")
	}

	if cfg.SlackWebhookURL != "" || cfg.DiscordWebhookURL != "" {
		publishers = append(publishers, events.NewWebhookPublisher(cfg.SlackWebhookURL, cfg.DiscordWebhookURL))
		log.Info().Msg("Webhook notifications enabled")
	}

	if len(publishers) == 0 {
		return events.Nop{}
	}

	return events.NewAsync(publishers, 256, 10*time.Second)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)
	gin.SetMode(gin.ReleaseMode)

	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := db.MigrateDatabase(gdb); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	if cfg.Seed {
		if err := db.SeedDatabase(context.Background(), gdb); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed database")
		}
	}

	gormStore := storage.NewGormStorage(gdb)
	var store storage.Storage = gormStore

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, reads will fall back to the database")
		}
		store = storage.NewCachedStorage(gormStore, rdb, cfg.CacheTTL)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close event publisher")
		}
	}()

	sched, err := scheduler.NewScheduler(gormStore, cfg.ReconcileSchedule, time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()
	defer sched.Stop()

	r := router.NewRouter(router.Deps{
		Config: cfg,
		Store:  store,
		Events: publisher,
		Hub:    realtime.NewHub(cfg.Origins()),
		Issuer: issuer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
