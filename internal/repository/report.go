package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// ReportRepo archives each enrichment pass so the dashboard can chart capital
// over time.
type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// EnsureSchema creates the archive table when it does not exist yet.
func (r *ReportRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS enrichment_reports (
			id              BIGSERIAL PRIMARY KEY,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			document        JSONB NOT NULL,
			strategy_count  INT NOT NULL,
			trade_count     INT NOT NULL,
			total_portfolio DOUBLE PRECISION NOT NULL
		)`)
	return err
}

// Save archives one enriched report document.
func (r *ReportRepo) Save(ctx context.Context, report *models.Report, tradeCount int) (*models.ReportRecord, error) {
	doc, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	total := 0.0
	if report.Allocation != nil {
		total = report.Allocation.TotalPortfolio
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO enrichment_reports (document, strategy_count, trade_count, total_portfolio)
		 VALUES ($1,$2,$3,$4)
		 RETURNING *`,
		doc, len(report.Strategies), tradeCount, total,
	)
	return scanReport(row)
}

// GetLatest returns the most recent archived report, or nil when the archive
// is empty.
func (r *ReportRepo) GetLatest(ctx context.Context) (*models.ReportRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT * FROM enrichment_reports ORDER BY created_at DESC LIMIT 1`)
	rec, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// GetHistory returns the most recent archived reports, newest first.
func (r *ReportRepo) GetHistory(ctx context.Context, limit int) ([]models.ReportRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM enrichment_reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReport(row scannable) (*models.ReportRecord, error) {
	var rec models.ReportRecord
	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.Document,
		&rec.StrategyCount, &rec.TradeCount, &rec.TotalPortfolio,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func collectReports(rows rowsIter) ([]models.ReportRecord, error) {
	var out []models.ReportRecord
	for rows.Next() {
		var rec models.ReportRecord
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.Document,
			&rec.StrategyCount, &rec.TradeCount, &rec.TotalPortfolio,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
