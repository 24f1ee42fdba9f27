// Package sqlite archives fetched daily bars so backtests can run offline
// against previously downloaded data.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stockwatch/internal/model"
)

// Archive is a single-writer SQLite store of historical bars.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive at path with WAL mode.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened archive at %s", path)
	return &Archive{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol  TEXT    NOT NULL,
			ts      INTEGER NOT NULL,
			open    REAL    NOT NULL,
			high    REAL    NOT NULL,
			low     REAL    NOT NULL,
			close   REAL    NOT NULL,
			volume  INTEGER NOT NULL,
			PRIMARY KEY (symbol, ts)
		);
	`)
	return err
}

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// SaveSeries upserts all bars of a series in one transaction.
func (a *Archive) SaveSeries(ctx context.Context, symbol string, series model.PriceSeries) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume
	`)
	if err != nil {
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range series {
		if _, err := stmt.ExecContext(ctx, symbol, b.TS.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("sqlite insert %s@%d: %w", symbol, b.TS.Unix(), err)
		}
	}
	return tx.Commit()
}

// LoadSeries reads all archived bars for symbol in ascending order. An
// unknown symbol yields an empty series; the caller decides whether that
// is an error.
func (a *Archive) LoadSeries(ctx context.Context, symbol string) (model.PriceSeries, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume
		FROM bars WHERE symbol = ? ORDER BY ts ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("sqlite query %s: %w", symbol, err)
	}
	defer rows.Close()

	var series model.PriceSeries
	for rows.Next() {
		var (
			ts  int64
			bar model.PriceBar
		)
		if err := rows.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan: %w", err)
		}
		bar.TS = time.Unix(ts, 0).UTC()
		series = append(series, bar)
	}
	return series, rows.Err()
}

// Symbols lists all archived symbols.
func (a *Archive) Symbols(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("sqlite symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("sqlite scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
