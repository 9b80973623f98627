package repository

import (
	"context"
	"errors"

	"cycle-kart/internal/model"
)

// ErrSessionBusy is returned when exclusive access to a session could not be
// obtained before the store's lock timeout.
var ErrSessionBusy = errors.New("session is busy")

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves every product ordered by ID.
	GetAll(ctx context.Context) ([]model.Product, error)

	// Upsert inserts products or replaces existing rows with the same ID.
	Upsert(ctx context.Context, products []model.Product) error
}

// SessionRepository stores visitor sessions keyed by session ID.
//
// Implementations give Update exclusive access per session key, so two
// concurrent mutations of the same session never lose each other's writes.
type SessionRepository interface {
	// Get returns the session for id. Unknown or expired IDs yield an empty
	// session and no error; nothing is written.
	Get(ctx context.Context, id string) (model.Session, error)

	// Update runs fn against a private copy of the session while holding the
	// session exclusively, then stores the result. If fn returns an error,
	// nothing is stored and the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(s *model.Session) error) error

	// Delete removes the session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes expired sessions and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// cloneSession returns a deep copy so callbacks never alias stored state.
func cloneSession(s model.Session) model.Session {
	out := model.Session{
		Cart:      s.Cart.Clone(),
		UpdatedAt: s.UpdatedAt,
	}
	if len(s.Flashes) > 0 {
		out.Flashes = make([]model.Notification, len(s.Flashes))
		copy(out.Flashes, s.Flashes)
	}
	return out
}
