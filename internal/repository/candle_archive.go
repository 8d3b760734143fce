// Package repository provides the infrastructure adapters behind the
// domain interfaces: the ClickHouse candle archive and the Kafka event
// publisher.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
)

// ClickHouseArchive implements CandleArchive on ClickHouse. Finalized
// candles only; the in-memory ring serves the open candle.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates the archive over an existing pool.
func NewClickHouseArchive(db *sql.DB, table string) drepo.CandleArchive {
	return &ClickHouseArchive{db: db, table: table}
}

// SchemaStatements returns the idempotent DDL for the candle table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			symbol LowCardinality(String),
			ts DateTime,
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Float64
		) ENGINE = ReplacingMergeTree
		PARTITION BY toYYYYMM(ts)
		ORDER BY (symbol, ts)`, database, table),
	}
}

func (a *ClickHouseArchive) Store(ctx context.Context, symbol string, c models.Candle) error {
	q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)", a.table)
	_, err := a.db.ExecContext(ctx, q,
		symbol, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume)
	if err != nil {
		return fmt.Errorf("archive store: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) StoreBatch(ctx context.Context, symbol string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, c := range candles[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, symbol, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s",
			a.table, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("archive store batch: %w", err)
		}
	}
	return nil
}

func (a *ClickHouseArchive) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Candle, error) {
	q := fmt.Sprintf("SELECT ts, open, high, low, close, volume FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC LIMIT ?", a.table)
	rows, err := a.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("archive query: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("archive scan: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close is a no-op; the pool is owned by pkg/clickhouse.
func (a *ClickHouseArchive) Close() error { return nil }
