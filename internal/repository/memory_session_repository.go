package repository

import (
	"context"
	"sync"
	"time"

	"cycle-kart/internal/model"

	"github.com/rs/zerolog"
)

type memoryEntry struct {
	mu      sync.Mutex
	session model.Session
	removed bool
}

// memorySessionRepository implements SessionRepository in process memory
// with one mutex per session.
type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// NewMemorySessionRepository creates an in-memory session repository.
// Sessions idle for longer than ttl are treated as absent.
func NewMemorySessionRepository(ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now, logger)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time, logger zerolog.Logger) *memorySessionRepository {
	return &memorySessionRepository{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     now,
		logger:  logger.With().Str("repository", "session-memory").Logger(),
	}
}

func (r *memorySessionRepository) expired(s model.Session) bool {
	return r.now().Sub(s.UpdatedAt) > r.ttl
}

// Get returns the session for id.
func (r *memorySessionRepository) Get(ctx context.Context, id string) (model.Session, error) {
	if err := ctx.Err(); err != nil {
		return model.Session{}, err
	}

	r.mu.Lock()
	entry, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return model.Session{}, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed || r.expired(entry.session) {
		return model.Session{}, nil
	}
	return cloneSession(entry.session), nil
}

// Update runs fn with the session held exclusively.
func (r *memorySessionRepository) Update(ctx context.Context, id string, fn func(s *model.Session) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.mu.Lock()
		entry, ok := r.entries[id]
		if !ok {
			entry = &memoryEntry{}
			r.entries[id] = entry
		}
		r.mu.Unlock()

		entry.mu.Lock()
		if entry.removed {
			// Swept or deleted between lookup and lock; start over with a fresh entry.
			entry.mu.Unlock()
			continue
		}

		working := model.Session{}
		if !r.expired(entry.session) {
			working = cloneSession(entry.session)
		}

		if err := fn(&working); err != nil {
			entry.mu.Unlock()
			return err
		}

		working.UpdatedAt = r.now()
		entry.session = working
		entry.mu.Unlock()

		return nil
	}
}

// Delete removes the session.
func (r *memorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	entry, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.removed = true
		entry.mu.Unlock()
	}
	return nil
}

// Sweep removes expired sessions. The map lock is not held while waiting on
// a session that is being updated.
func (r *memorySessionRepository) Sweep(ctx context.Context) (int, error) {
	r.mu.Lock()
	snapshot := make(map[string]*memoryEntry, len(r.entries))
	for id, entry := range r.entries {
		snapshot[id] = entry
	}
	r.mu.Unlock()

	removed := 0
	for id, entry := range snapshot {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		entry.mu.Lock()
		if entry.removed || !r.expired(entry.session) {
			entry.mu.Unlock()
			continue
		}
		entry.removed = true
		entry.mu.Unlock()

		r.mu.Lock()
		if r.entries[id] == entry {
			delete(r.entries, id)
		}
		r.mu.Unlock()
		removed++
	}

	r.logger.Debug().Int("removed", removed).Msg("swept expired sessions")

	return removed, nil
}
