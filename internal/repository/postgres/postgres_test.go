package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citysky/weather/internal/domain"
)

// newTestRepository connects to TEST_DATABASE_URL or skips the test
func newTestRepository(t *testing.T) (*PostgresRepository, *pgxpool.Pool) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	repo := NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	// Safe to run twice
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema is not idempotent: %v", err)
	}
	return repo, pool
}

func TestPostgresRepositoryRoundTrip(t *testing.T) {
	repo, pool := newTestRepository(t)
	ctx := context.Background()

	// Far-future timestamps keep these rows ahead of anything already logged.
	base := time.Date(2999, 1, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.LookupRecord{
		{
			ID:        uuid.NewString(),
			City:      "São Paulo",
			Units:     domain.Celsius,
			Success:   true,
			Display:   "São Paulo, BR 24°C",
			Timestamp: base,
		},
		{
			ID:        uuid.NewString(),
			City:      "Atlantis",
			Units:     domain.Fahrenheit,
			ErrorKind: domain.KindHTTPStatus.String(),
			Display:   domain.MessageLookupFailed,
			Timestamp: base.Add(time.Minute),
		},
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if err := repo.SaveLookup(ctx, rec); err != nil {
			t.Fatalf("SaveLookup failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM lookup_log WHERE id::text = ANY($1)`, ids)
	})

	if err := repo.SaveLookup(ctx, records[0]); err == nil {
		t.Error("Expected duplicate id to be rejected")
	}

	got, err := repo.RecentLookups(ctx, 2)
	if err != nil {
		t.Fatalf("RecentLookups failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}

	for i, want := range []domain.LookupRecord{records[1], records[0]} {
		rec := got[i]
		if rec.ID != want.ID || rec.City != want.City || rec.Units != want.Units ||
			rec.Success != want.Success || rec.ErrorKind != want.ErrorKind || rec.Display != want.Display {
			t.Errorf("Record %d: expected %+v, got %+v", i, want, rec)
		}
		if !rec.Timestamp.Equal(want.Timestamp) {
			t.Errorf("Record %d: expected timestamp %v, got %v", i, want.Timestamp, rec.Timestamp)
		}
	}

	if err := repo.Health(ctx); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}
