package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/api"
	"github.com/clawdia/dashboard-backend/internal/config"
	"github.com/clawdia/dashboard-backend/internal/db"
	"github.com/clawdia/dashboard-backend/internal/enrich"
	"github.com/clawdia/dashboard-backend/internal/external"
	"github.com/clawdia/dashboard-backend/internal/notifications"
	"github.com/clawdia/dashboard-backend/internal/repository"
	"github.com/clawdia/dashboard-backend/internal/scheduler"
	"github.com/clawdia/dashboard-backend/internal/sources"
	"github.com/clawdia/dashboard-backend/internal/status"
	"github.com/clawdia/dashboard-backend/internal/updater"
)

const banner = `
╔══════════════════════════════════════╗
║    Clawdia Dashboard Backend v0.3    ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database (optional, powers the report archive)
	var reportRepo *repository.ReportRepo
	if cfg.ArchiveEnabled() {
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, continuing without report archive")
		} else {
			defer pool.Close()
			if err := db.TestConnection(pool); err != nil {
				log.Warn().Err(err).Msg("database test query failed, continuing without report archive")
			} else {
				reportRepo = repository.NewReportRepo(pool)
				if err := reportRepo.EnsureSchema(context.Background()); err != nil {
					log.Warn().Err(err).Msg("archive schema setup failed, continuing without report archive")
					reportRepo = nil
				}
			}
		}
	}

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.BotName)

	// Sources
	scanner := status.NewScanner(cfg.BotProcesses)
	solana := external.NewSolanaClient(cfg.SolanaRPCURL)
	coingecko := external.NewCoinGeckoClient(cfg.PriceCacheTTL())
	wallet := sources.NewWalletLoader(
		filepath.Join(cfg.BotDataDir, "latest_snapshot.json"),
		cfg.WalletAddress,
		solana,
		coingecko,
	)

	// Updater
	var archive updater.Archiver
	if reportRepo != nil {
		archive = reportRepo
	}
	svc := updater.NewService(
		updater.ServiceConfig{
			BotDataDir:     cfg.BotDataDir,
			StrategiesFile: cfg.StrategiesFile,
			OutputDir:      cfg.OutputDir,
		},
		wallet,
		func() enrich.BotStatusProvider { return scanner.Snapshot() },
		archive,
		notify,
	)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	var history api.HistorySource
	if reportRepo != nil {
		history = reportRepo
	}
	srv := api.NewServer(svc, history, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server error")
			os.Exit(1)
		}
	}()

	// 2. Refresh scheduler
	sched := scheduler.NewUpdateScheduler(svc, scheduler.UpdateSchedulerConfig{
		Interval: cfg.UpdateInterval(),
	})
	sched.Start()

	log.Info().Msg("all services started")

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API shutdown error")
	}
	log.Info().Msg("shutdown complete")
}
