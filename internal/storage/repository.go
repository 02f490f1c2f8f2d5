package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"paydown/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Scenario is a saved simulation: the inputs plus the summary that was
// computed when it was saved. Monetary columns are stored as decimal strings.
type Scenario struct {
	ID            int64
	Name          string
	Loan          core.Loan
	ExtraSpecs    string // raw COUNT:AMOUNT tokens, comma separated
	PeriodicSpecs string // raw PERIOD:AMOUNT tokens, comma separated
	StartMonth    time.Time
	Months        int
	PayoffMonth   time.Time
	TotalPaid     decimal.Decimal
	TotalInterest decimal.Decimal
	CreatedAt     time.Time
}

// PendingSyncScenario carries the minimal data for sync queue messages.
type PendingSyncScenario struct {
	ID        int64
	CreatedAt time.Time
}

// Episode is one downloaded episode recorded for bookkeeping; the JSON state
// file remains the downloader's resume source of truth.
type Episode struct {
	ID           int64
	EpisodeDate  time.Time
	URL          string
	FilePath     string
	Bytes        int64
	DownloadedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveScenario persists a simulated scenario and returns its ID.
func (r *SQLiteRepository) SaveScenario(ctx context.Context, s Scenario) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scenarios (
			name, balance, payment, annual_rate, extra_specs, periodic_specs,
			start_month, months, payoff_month, total_paid, total_interest
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name,
		s.Loan.Balance.String(),
		s.Loan.Payment.String(),
		s.Loan.AnnualRate.String(),
		s.ExtraSpecs,
		s.PeriodicSpecs,
		s.StartMonth.Format(dateLayout),
		s.Months,
		s.PayoffMonth.Format(dateLayout),
		s.TotalPaid.String(),
		s.TotalInterest.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert scenario: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scenario insert id: %w", err)
	}

	slog.InfoContext(ctx, "Scenario saved to SQLite",
		"id", id,
		"scenario_name", s.Name,
		"months", s.Months)

	return id, nil
}

// GetScenario retrieves a single scenario by ID.
func (r *SQLiteRepository) GetScenario(ctx context.Context, id int64) (*Scenario, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, balance, payment, annual_rate, extra_specs, periodic_specs,
		       start_month, months, payoff_month, total_paid, total_interest, created_at
		FROM scenarios WHERE id = ?`, id)

	var (
		s                                     Scenario
		balance, payment, rate, startMonth    string
		payoffMonth, totalPaid, totalInterest string
	)
	if err := row.Scan(&s.ID, &s.Name, &balance, &payment, &rate, &s.ExtraSpecs, &s.PeriodicSpecs,
		&startMonth, &s.Months, &payoffMonth, &totalPaid, &totalInterest, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("get scenario by id: %w", err)
	}

	var err error
	if s.Loan.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if s.Loan.Payment, err = decimal.NewFromString(payment); err != nil {
		return nil, fmt.Errorf("parse payment: %w", err)
	}
	if s.Loan.AnnualRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("parse annual rate: %w", err)
	}
	if s.TotalPaid, err = decimal.NewFromString(totalPaid); err != nil {
		return nil, fmt.Errorf("parse total paid: %w", err)
	}
	if s.TotalInterest, err = decimal.NewFromString(totalInterest); err != nil {
		return nil, fmt.Errorf("parse total interest: %w", err)
	}
	if s.StartMonth, err = time.Parse(dateLayout, startMonth); err != nil {
		return nil, fmt.Errorf("parse start month: %w", err)
	}
	if s.PayoffMonth, err = time.Parse(dateLayout, payoffMonth); err != nil {
		return nil, fmt.Errorf("parse payoff month: %w", err)
	}

	return &s, nil
}

// GetPendingSyncScenarios returns scenarios that have not been exported yet.
func (r *SQLiteRepository) GetPendingSyncScenarios(ctx context.Context, limit int) ([]PendingSyncScenario, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at FROM scenarios
		WHERE synced_at IS NULL
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync scenarios: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncScenario
	for rows.Next() {
		var p PendingSyncScenario
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending scenario: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a scenario as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE scenarios SET synced_at = CURRENT_TIMESTAMP, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark scenario synced: %w", err)
	}
	slog.InfoContext(ctx, "Scenario marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a scenario as having export errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE scenarios SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark scenario sync error: %w", err)
	}
	slog.WarnContext(ctx, "Scenario marked with sync error", "id", id)
	return nil
}

// RecordEpisode stores a downloaded episode; re-downloads replace the row.
func (r *SQLiteRepository) RecordEpisode(ctx context.Context, e Episode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO episodes (episode_date, url, file_path, bytes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(episode_date) DO UPDATE SET
			url = excluded.url,
			file_path = excluded.file_path,
			bytes = excluded.bytes,
			downloaded_at = CURRENT_TIMESTAMP`,
		e.EpisodeDate.Format(dateLayout), e.URL, e.FilePath, e.Bytes)
	if err != nil {
		return fmt.Errorf("record episode: %w", err)
	}
	return nil
}

// LastEpisodeDate returns the most recent recorded episode date, or ok=false
// when no episode has been downloaded yet.
func (r *SQLiteRepository) LastEpisodeDate(ctx context.Context) (time.Time, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT episode_date FROM episodes ORDER BY episode_date DESC LIMIT 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last episode date: %w", err)
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse episode date: %w", err)
	}
	return d, true, nil
}

// ListEpisodes returns the most recently downloaded episodes, newest first.
func (r *SQLiteRepository) ListEpisodes(ctx context.Context, limit int) ([]Episode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, episode_date, url, file_path, bytes, downloaded_at
		FROM episodes ORDER BY episode_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var (
			e   Episode
			raw string
		)
		if err := rows.Scan(&e.ID, &raw, &e.URL, &e.FilePath, &e.Bytes, &e.DownloadedAt); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		if e.EpisodeDate, err = time.Parse(dateLayout, raw); err != nil {
			return nil, fmt.Errorf("parse episode date: %w", err)
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}
