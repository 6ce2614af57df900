package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citysky/weather/internal/domain"
)

// Fetcher is the lookup half of WeatherService
type Fetcher interface {
	Fetch(ctx context.Context, city string) (domain.RawPayload, error)
}

// LookupOutcome is the result of one shell action
type LookupOutcome struct {
	Query   domain.WeatherQuery
	Display domain.DisplayResult
	Err     error // internal cause, nil on success
	Stale   bool  // a newer lookup started before this one finished
}

// SessionState is a read-only copy of the shell state
type SessionState struct {
	Units   domain.Units         `json:"units"`
	City    string               `json:"city"`
	Display domain.DisplayResult `json:"display"`
}

// Session owns the only mutable shell state: the unit preference and the
// last-entered city. Each lookup takes a generation number so a slow,
// superseded response never replaces a newer display.
type Session struct {
	fetcher Fetcher
	repo    LookupRepository

	mu         sync.Mutex
	units      domain.Units
	lastCity   string
	last       domain.DisplayResult
	generation uint64

	wgBg sync.WaitGroup // tracks background log writes for graceful shutdown
}

// NewSession creates a session starting in Celsius
func NewSession(fetcher Fetcher, repo LookupRepository) *Session {
	return &Session{
		fetcher: fetcher,
		repo:    repo,
		units:   domain.Celsius,
	}
}

// WaitBackground blocks until all background log writes complete.
func (s *Session) WaitBackground() {
	s.wgBg.Wait()
}

// Lookup records city as the last-entered city and displays its weather in
// the current units.
func (s *Session) Lookup(ctx context.Context, city string) LookupOutcome {
	s.mu.Lock()
	gen, q := s.beginLocked(city)
	s.mu.Unlock()

	return s.run(ctx, gen, q)
}

// LookupIn switches the preference to units and looks up city under the
// same lock, so a concurrent toggle cannot slip in between.
func (s *Session) LookupIn(ctx context.Context, city string, units domain.Units) LookupOutcome {
	s.mu.Lock()
	s.units = units
	gen, q := s.beginLocked(city)
	s.mu.Unlock()

	return s.run(ctx, gen, q)
}

// beginLocked starts a new generation for city. s.mu must be held.
func (s *Session) beginLocked(city string) (uint64, domain.WeatherQuery) {
	s.generation++
	s.lastCity = city
	return s.generation, domain.WeatherQuery{City: strings.TrimSpace(city), Units: s.units}
}

// ToggleUnits flips the unit preference and repeats the lookup for the
// last-entered city.
func (s *Session) ToggleUnits(ctx context.Context) LookupOutcome {
	s.mu.Lock()
	s.units = s.units.Toggle()
	s.generation++
	gen := s.generation
	q := domain.WeatherQuery{City: strings.TrimSpace(s.lastCity), Units: s.units}
	s.mu.Unlock()

	return s.run(ctx, gen, q)
}

// Snapshot returns the current state
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{Units: s.units, City: s.lastCity, Display: s.last}
}

func (s *Session) run(ctx context.Context, gen uint64, q domain.WeatherQuery) LookupOutcome {
	out := LookupOutcome{Query: q}

	payload, err := s.fetcher.Fetch(ctx, q.City)
	if err == nil {
		out.Display, err = Format(payload, q.Units)
	}
	if err != nil {
		if !isFetchError(err) {
			err = domain.NewFetchError(domain.KindTransport, 0, err)
		}
		log.Printf("Weather lookup failed: city=%q kind=%s err=%v", q.City, domain.KindOf(err), err)
		out.Err = err
		out.Display = ErrorDisplay(err)
	}

	s.mu.Lock()
	if gen == s.generation {
		s.last = out.Display
	} else {
		out.Stale = true
	}
	s.mu.Unlock()

	if out.Stale {
		log.Printf("Discarding stale lookup result: city=%q", q.City)
	}

	s.record(q, out)
	return out
}

// record persists the outcome asynchronously (tracked for graceful shutdown)
func (s *Session) record(q domain.WeatherQuery, out LookupOutcome) {
	if s.repo == nil {
		return
	}

	rec := domain.LookupRecord{
		ID:        uuid.NewString(),
		City:      q.City,
		Units:     q.Units,
		Success:   out.Err == nil,
		Timestamp: time.Now(),
	}
	if out.Err != nil {
		rec.ErrorKind = domain.KindOf(out.Err).String()
		rec.Display = out.Display.Message
	} else {
		rec.Display = out.Display.LocationLine + " " + out.Display.TemperatureLine
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SaveLookup(bgCtx, rec); err != nil {
			log.Printf("Failed to save lookup log: %v", err)
		}
	}()
}
