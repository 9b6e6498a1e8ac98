package recorder

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"CatalystScanner/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sqlx.DB
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id            TEXT PRIMARY KEY,
			symbol        TEXT NOT NULL,
			scanned_at    INTEGER NOT NULL,
			dte           INTEGER NOT NULL,
			source        TEXT,
			current_price REAL,
			iv_percentile INTEGER,
			pivot         REAL,
			support1      REAL,
			support2      REAL,
			risk_score    INTEGER,
			risk_level    TEXT,
			reasons       TEXT,
			short_strike  REAL,
			long_strike   REAL,
			premium       REAL,
			contracts     INTEGER,
			max_profit    REAL,
			max_loss      REAL,
			data_error    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_symbol_ts ON scans(symbol, scanned_at)`,

		`CREATE TABLE IF NOT EXISTS scan_factors (
			scan_id TEXT NOT NULL REFERENCES scans(id),
			seq     INTEGER NOT NULL,
			name    TEXT,
			points  INTEGER,
			reason  TEXT,
			PRIMARY KEY (scan_id, seq)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

const insertScan = `INSERT INTO scans
	(id, symbol, scanned_at, dte, source, current_price, iv_percentile,
	 pivot, support1, support2, risk_score, risk_level, reasons,
	 short_strike, long_strike, premium, contracts, max_profit, max_loss, data_error)
	VALUES
	(:id, :symbol, :scanned_at, :dte, :source, :current_price, :iv_percentile,
	 :pivot, :support1, :support2, :risk_score, :risk_level, :reasons,
	 :short_strike, :long_strike, :premium, :contracts, :max_profit, :max_loss, :data_error)`

// RecordScan stores the report and its risk factors in one transaction.
func (r *SQLiteRecorder) RecordScan(ctx context.Context, rep *model.ScanReport) error {
	if rep.ID == "" {
		return fmt.Errorf("record scan: report has no id")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertScan, NewScanRecord(rep)); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	for i, f := range rep.Risk.Factors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_factors (scan_id, seq, name, points, reason) VALUES (?,?,?,?,?)`,
			rep.ID, i, f.Name, f.Points, f.Reason,
		); err != nil {
			return fmt.Errorf("insert factor: %w", err)
		}
	}
	return tx.Commit()
}

// RecentScans returns up to limit scans for symbol, newest first.
func (r *SQLiteRecorder) RecentScans(ctx context.Context, symbol string, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var recs []ScanRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT id, symbol, scanned_at, dte, source, current_price, iv_percentile,
		        pivot, support1, support2, risk_score, risk_level, reasons,
		        short_strike, long_strike, premium, contracts, max_profit, max_loss, data_error
		   FROM scans WHERE symbol = ? ORDER BY scanned_at DESC, rowid DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("select scans: %w", err)
	}
	return recs, nil
}

// Factors returns the stored risk factors of one scan in evaluation order.
func (r *SQLiteRecorder) Factors(ctx context.Context, scanID string) ([]model.RiskFactor, error) {
	var out []model.RiskFactor
	err := r.db.SelectContext(ctx, &out,
		`SELECT name, points, reason FROM scan_factors WHERE scan_id = ? ORDER BY seq`, scanID)
	if err != nil {
		return nil, fmt.Errorf("select factors: %w", err)
	}
	return out, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
