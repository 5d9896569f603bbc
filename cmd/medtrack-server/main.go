// Package main is the entry point for the medtrack server, a personal
// medicine-tracking service backed by a flat key-value store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/medtrack/internal/config"
	"github.com/prn-tf/medtrack/internal/handler"
	"github.com/prn-tf/medtrack/internal/mail"
	"github.com/prn-tf/medtrack/internal/medsearch"
	"github.com/prn-tf/medtrack/internal/metrics"
	"github.com/prn-tf/medtrack/internal/repository"
	"github.com/prn-tf/medtrack/internal/service"
	"github.com/prn-tf/medtrack/internal/store"
	memorystore "github.com/prn-tf/medtrack/internal/store/memory"
	redisstore "github.com/prn-tf/medtrack/internal/store/redis"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	setupLogger(cfg.Logging)

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("environment", cfg.Environment).
		Msg("starting medtrack server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	keys := repository.NewKeys(cfg.Environment)
	users := repository.NewUsers(kv, keys, log.Logger)
	medicines := repository.NewMedicines(kv, keys, log.Logger)
	schedules := repository.NewSchedules(kv, keys, log.Logger)
	dosages := repository.NewDosages(kv, keys, log.Logger)
	tokens := repository.NewTokens(kv, keys, log.Logger)

	ttls := service.TokenTTLs{
		Activation: cfg.Tokens.ActivationTTL,
		Reset:      cfg.Tokens.ResetTTL,
		Session:    cfg.Tokens.SessionTTL,
	}

	routerCfg := handler.RouterConfig{
		Accounts:  service.NewAccountService(users, tokens, mail.NewLogMailer(log.Logger), ttls, log.Logger),
		Medicines: service.NewMedicineService(medicines, log.Logger),
		Schedules: service.NewScheduleService(schedules, medicines, log.Logger),
		Dosages:   service.NewDosageService(dosages, log.Logger),
		Reports:   service.NewReportService(medicines, schedules, dosages, log.Logger),
		Logger:    log.Logger,
	}

	if cfg.MedSearch.Enabled {
		search, err := medsearch.Open(cfg.MedSearch.Path, cfg.MedSearch.LeafletBaseURL, log.Logger)
		if err != nil {
			return fmt.Errorf("open medicines register: %w", err)
		}
		defer search.Close()
		routerCfg.Search = search
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(routerCfg).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			log.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return nil
}

// openStore opens the configured key-value backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("using in-memory store; data will not survive restarts")
		mem := memorystore.New()
		return mem, mem.Stop, nil
	default:
		rs, err := redisstore.Open(ctx, redisstore.Config{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	}
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
