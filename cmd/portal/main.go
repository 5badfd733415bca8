// Command portal runs the Vitrine credential service: it reconciles the
// well-known accounts once at boot and then serves the login and admin API.
//
// @title                      Vitrine Portal Credential API
// @version                    1.0
// @description                Login and account administration for the Vitrine portal.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
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
	"github.com/rs/zerolog"

	"github.com/vitrinesorocabana/portal/internal/api"
	"github.com/vitrinesorocabana/portal/internal/api/handler"
	"github.com/vitrinesorocabana/portal/internal/api/metrics"
	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"
	"github.com/vitrinesorocabana/portal/internal/core/service"
	"github.com/vitrinesorocabana/portal/internal/infrastructure/crypto"
	mongostore "github.com/vitrinesorocabana/portal/internal/infrastructure/db/mongo"
	pgstore "github.com/vitrinesorocabana/portal/internal/infrastructure/db/postgres"
	redisstore "github.com/vitrinesorocabana/portal/internal/infrastructure/db/redis"
	"github.com/vitrinesorocabana/portal/internal/pkg/config"
	"github.com/vitrinesorocabana/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "vitrine-portal"))

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancelBoot := context.WithTimeout(ctx, cfg.StartupTimeout)
	defer cancelBoot()

	repo, closeStore, err := openStore(bootCtx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close credential store")
		}
	}()

	probes := []handler.Dependency{{Name: cfg.StoreDriver, Ping: repo.Ping}}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(bootCtx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		probes = append(probes, handler.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	if err := normalize(bootCtx, cfg, repo, hasher, rdb, log); err != nil {
		return err
	}
	cancelBoot()

	authService, err := service.NewAuthService(repo, hasher, log)
	if err != nil {
		return err
	}
	accountService := service.NewAccountService(repo, hasher, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Accounts: accountService,
		Probes:   probes,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (ports.AccountRepository, func(context.Context) error, error) {
	if cfg.StoreDriver == config.DriverMongo {
		repo, closeFn, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return repo, closeFn, nil
	}

	repo, closeFn, err := pgstore.Open(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return nil, nil, err
	}
	return repo, closeFn, nil
}

// normalize runs the one-shot credential pass. With Redis configured, replicas
// take turns through the startup lock. Only a store outage aborts the boot.
func normalize(
	ctx context.Context,
	cfg *config.Config,
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	rdb *goredis.Client,
	log zerolog.Logger,
) error {
	if cfg.WellKnown.AdminSecret == "" {
		log.Warn().Msg("WELL_KNOWN_ADMIN_SECRET not set: admin-class accounts are not enforced")
	}
	if cfg.WellKnown.UserSecret == "" {
		log.Warn().Msg("WELL_KNOWN_USER_SECRET not set: user-class accounts are not enforced")
	}

	if rdb != nil {
		lock := redisstore.NewStartupLock(rdb, cfg.StartupTimeout)
		if err := lock.Acquire(ctx); err != nil {
			return fmt.Errorf("acquire startup lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				log.Warn().Err(err).Msg("release startup lock")
			}
		}()
	}

	mode := service.ParseNormalizeMode(cfg.WellKnown.Mode)
	normalizer := service.NewNormalizer(repo, hasher, cfg.WellKnown.Accounts(), mode, log)

	start := time.Now()
	report, err := normalizer.Run(ctx)
	metrics.NormalizationDuration.Observe(time.Since(start).Seconds())
	for _, outcome := range []ports.NormalizationOutcome{
		ports.OutcomeSkipped,
		ports.OutcomeUnchanged,
		ports.OutcomeReconciled,
		ports.OutcomeDriftDetected,
		ports.OutcomeFailed,
	} {
		metrics.NormalizationAccountsTotal.WithLabelValues(string(outcome)).Add(float64(report.Count(outcome)))
	}

	switch {
	case errors.Is(err, domain.ErrNormalizationIncomplete):
		log.Error().Err(err).Int("failed", report.Count(ports.OutcomeFailed)).Msg("credential normalization incomplete, continuing startup")
	case err != nil:
		return fmt.Errorf("credential normalization: %w", err)
	}
	return nil
}
