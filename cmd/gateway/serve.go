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

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/payflow/payment-gateway/internal/api"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/core/service"
	"github.com/payflow/payment-gateway/internal/infrastructure/accountclient"
	"github.com/payflow/payment-gateway/internal/infrastructure/config"
	redisdb "github.com/payflow/payment-gateway/internal/infrastructure/db/redis"
	"github.com/payflow/payment-gateway/internal/infrastructure/http/handlers"
	"github.com/payflow/payment-gateway/internal/infrastructure/kafka"
	"github.com/payflow/payment-gateway/internal/infrastructure/queue"
	"github.com/payflow/payment-gateway/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, st, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	if err := st.ensureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	sink, checks, err := alertSink(cfg, rdb)
	if err != nil {
		return err
	}
	defer sink.Close()
	checks = append(checks, handlers.MongoCheck(st.db), handlers.RedisCheck(rdb))

	// Workers outlive the signal context so Stop can drain them.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcher := queue.NewAlertDispatcher(sink, queue.Options{
		Workers:        cfg.Alerts.Workers,
		Buffer:         cfg.Alerts.Buffer,
		PublishTimeout: cfg.Alerts.PublishTimeout,
	}, logger.For("alerts"))
	dispatcher.Start(workerCtx)

	users := redisdb.NewCachedUserStore(st.users, rdb, cfg.Redis.UserCacheTTL, logger.For("user_cache"))
	accounts := accountclient.New(cfg.AccountService.BaseURL, cfg.AccountService.Timeout)

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth")),
		Payments: service.NewPaymentService(accounts, users, dispatcher, logger.For("payments")),
		Users:    service.NewUserService(users, logger.For("users")),
		Checks:   checks,
		Logger:   logger.For("http"),
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("alert_transport", cfg.Alerts.Transport).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("alert queue not drained before deadline")
		cancelWorkers()
	}
	log.Info().Msg("gateway stopped")
	return nil
}

// alertSink builds the configured transport and its readiness check.
func alertSink(cfg *config.Config, rdb *goredis.Client) (ports.AlertSink, []handlers.Check, error) {
	switch cfg.Alerts.Transport {
	case config.TransportRedis:
		return redisdb.NewStreamAlertSink(rdb, cfg.Redis.AlertStream), nil, nil
	default:
		sink, err := kafka.NewAlertSink(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		if err != nil {
			return nil, nil, err
		}
		return sink, []handlers.Check{handlers.KafkaCheck(cfg.Kafka.Brokers)}, nil
	}
}
