package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citysky/weather/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS lookup_log (
		id         UUID PRIMARY KEY,
		city       TEXT NOT NULL,
		units      TEXT NOT NULL,
		success    BOOLEAN NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		display    TEXT NOT NULL DEFAULT '',
		timestamp  TIMESTAMPTZ NOT NULL
	)
`

// PostgresRepository implements domain.LookupRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the lookup_log table if missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SaveLookup persists one lookup outcome
func (r *PostgresRepository) SaveLookup(ctx context.Context, rec domain.LookupRecord) error {
	query := `
		INSERT INTO lookup_log (id, city, units, success, error_kind, display, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.City, rec.Units.String(), rec.Success, rec.ErrorKind, rec.Display, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save lookup: %w", err)
	}

	return nil
}

// RecentLookups retrieves the newest lookups
func (r *PostgresRepository) RecentLookups(ctx context.Context, limit int) ([]domain.LookupRecord, error) {
	query := `
		SELECT id::text, city, units, success, error_kind, display, timestamp
		FROM lookup_log
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query lookups: %w", err)
	}
	defer rows.Close()

	var results []domain.LookupRecord
	for rows.Next() {
		var (
			rec   domain.LookupRecord
			units string
		)
		err := rows.Scan(&rec.ID, &rec.City, &units, &rec.Success, &rec.ErrorKind, &rec.Display, &rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan lookup row: %w", err)
		}
		if rec.Units, err = domain.ParseUnits(units); err != nil {
			return nil, fmt.Errorf("postgres: bad units in lookup row %s: %w", rec.ID, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate lookups: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
