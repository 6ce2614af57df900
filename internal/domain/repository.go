package domain

import "context"

// LookupRepository defines the interface for the lookup log.
// The log is write-mostly; nothing in the lookup path reads it back.
type LookupRepository interface {
	// SaveLookup persists one lookup outcome
	SaveLookup(ctx context.Context, rec LookupRecord) error

	// RecentLookups returns the newest records first
	RecentLookups(ctx context.Context, limit int) ([]LookupRecord, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
