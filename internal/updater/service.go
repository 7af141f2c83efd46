package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/enrich"
	"github.com/clawdia/dashboard-backend/internal/models"
	"github.com/clawdia/dashboard-backend/internal/sources"
)

// WalletSource produces the current wallet snapshot, nil when unavailable.
type WalletSource interface {
	Load(ctx context.Context) *models.WalletSnapshot
}

// StatusSource returns a point-in-time view of which bot processes are alive,
// or nil if inspection is unavailable.
type StatusSource func() enrich.BotStatusProvider

// Archiver persists each enriched report. Optional.
type Archiver interface {
	Save(ctx context.Context, report *models.Report, tradeCount int) (*models.ReportRecord, error)
}

// Notifier delivers operational messages. Optional.
type Notifier interface {
	Send(msg string)
	Enabled() bool
}

type ServiceConfig struct {
	BotDataDir     string
	StrategiesFile string
	OutputDir      string
}

// Service runs the full enrichment refresh: load every source, enrich, write
// the dashboard documents, archive.
type Service struct {
	cfg      ServiceConfig
	wallet   WalletSource
	status   StatusSource
	archive  Archiver
	notifier Notifier

	mu         sync.RWMutex
	lastReport *models.Report
	lastWallet *models.WalletSnapshot
	lastRun    time.Time
}

func NewService(cfg ServiceConfig, wallet WalletSource, status StatusSource, archive Archiver, notifier Notifier) *Service {
	return &Service{
		cfg:      cfg,
		wallet:   wallet,
		status:   status,
		archive:  archive,
		notifier: notifier,
	}
}

// RunResult summarizes one refresh pass.
type RunResult struct {
	Strategies int
	Trades     int
	Duration   time.Duration
}

// RunOnce executes one refresh pass. Source failures degrade to empty or nil
// inputs; only output write failures are fatal.
func (s *Service) RunOnce(ctx context.Context) error {
	start := time.Now()

	cfg := sources.LoadStrategyConfig(s.cfg.StrategiesFile)

	trades, err := sources.LoadTrades(s.cfg.BotDataDir)
	if err != nil {
		log.Warn().Err(err).Msg("trade ledger load failed, continuing with empty ledger")
		trades = nil
	}

	liveStates, err := sources.LoadLiveStates(s.cfg.BotDataDir)
	if err != nil {
		log.Warn().Err(err).Msg("live state load failed")
		liveStates = sources.LiveStates{}
	}

	gridStates, err := sources.LoadGridStates(s.cfg.BotDataDir)
	if err != nil {
		log.Warn().Err(err).Msg("grid state load failed")
		gridStates = sources.GridStates{}
	}

	var wallet *models.WalletSnapshot
	if s.wallet != nil {
		wallet = s.wallet.Load(ctx)
	}

	var botStatus enrich.BotStatusProvider
	if s.status != nil {
		botStatus = s.status()
	}

	report := enrich.Enrich(enrich.Sources{
		Config:     cfg,
		Trades:     trades,
		LiveStates: liveStates,
		GridStates: gridStates,
		Wallet:     wallet,
		BotStatus:  botStatus,
	})

	if err := s.writeOutputs(report, wallet, trades); err != nil {
		if s.notifier != nil && s.notifier.Enabled() {
			s.notifier.Send(fmt.Sprintf("refresh failed: %v", err))
		}
		return err
	}

	if s.archive != nil {
		if _, err := s.archive.Save(ctx, report, len(trades)); err != nil {
			log.Warn().Err(err).Msg("report archive failed")
		}
	}

	s.mu.Lock()
	s.lastReport = report
	s.lastWallet = wallet
	s.lastRun = time.Now()
	s.mu.Unlock()

	result := RunResult{
		Strategies: len(report.Strategies),
		Trades:     len(trades),
		Duration:   time.Since(start),
	}
	log.Info().
		Int("strategies", result.Strategies).
		Int("trades", result.Trades).
		Dur("took", result.Duration).
		Msg("refresh complete")

	return nil
}

func (s *Service) writeOutputs(report *models.Report, wallet *models.WalletSnapshot, trades []models.Trade) error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSONFile(filepath.Join(s.cfg.OutputDir, "strategies.json"), report); err != nil {
		return err
	}

	if wallet != nil {
		if err := writeJSONFile(filepath.Join(s.cfg.OutputDir, "wallet.json"), wallet); err != nil {
			return err
		}
	}

	summary := map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"strategies":   len(report.Strategies),
		"trades":       len(trades),
		"allocation":   report.Allocation,
	}
	return writeJSONFile(filepath.Join(s.cfg.OutputDir, "summary.json"), summary)
}

// writeJSONFile writes atomically via a temp file so the dashboard never reads
// a half-written document.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// LatestReport returns the most recent enriched report, nil before the first
// successful pass.
func (s *Service) LatestReport() *models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// LatestWallet returns the wallet snapshot from the most recent pass.
func (s *Service) LatestWallet() *models.WalletSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWallet
}

// LastRun returns when the most recent successful pass finished.
func (s *Service) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}
