package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cycle-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresSessionRepository implements SessionRepository using PostgreSQL.
// Update locks the session row with SELECT ... FOR UPDATE.
type postgresSessionRepository struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	logger zerolog.Logger
}

// NewPostgresSessionRepository creates a new PostgreSQL-backed session repository.
func NewPostgresSessionRepository(pool *pgxpool.Pool, ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return &postgresSessionRepository{
		pool:   pool,
		ttl:    ttl,
		logger: logger.With().Str("repository", "session-postgres").Logger(),
	}
}

func (r *postgresSessionRepository) decode(id string, data []byte, updatedAt time.Time) model.Session {
	if time.Since(updatedAt) > r.ttl {
		return model.Session{}
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn().Err(err).Str("session_id", id).Msg("discarding undecodable session")
		return model.Session{}
	}
	s.UpdatedAt = updatedAt
	return s
}

// Get returns the session for id.
func (r *postgresSessionRepository) Get(ctx context.Context, id string) (model.Session, error) {
	query := `
		SELECT data, updated_at
		FROM sessions
		WHERE id = $1
	`

	var data []byte
	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&data, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, nil
		}
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to query session")
		return model.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	return r.decode(id, data, updatedAt), nil
}

// Update runs fn with the session row locked.
func (r *postgresSessionRepository) Update(ctx context.Context, id string, fn func(s *model.Session) error) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Make sure a row exists so that FOR UPDATE has something to lock.
	insert := `
		INSERT INTO sessions (id, data, updated_at)
		VALUES ($1, '{}'::jsonb, to_timestamp(0))
		ON CONFLICT (id) DO NOTHING
	`
	if _, err = tx.Exec(ctx, insert, id); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to create session row")
		return fmt.Errorf("failed to create session row: %w", err)
	}

	var data []byte
	var updatedAt time.Time
	err = tx.QueryRow(ctx, `SELECT data, updated_at FROM sessions WHERE id = $1 FOR UPDATE`, id).Scan(&data, &updatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to lock session")
		return fmt.Errorf("failed to lock session: %w", err)
	}

	s := r.decode(id, data, updatedAt)
	if err = fn(&s); err != nil {
		return err
	}

	s.UpdatedAt = time.Now()
	encoded, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if _, err = tx.Exec(ctx, `UPDATE sessions SET data = $2, updated_at = $3 WHERE id = $1`, id, string(encoded), s.UpdatedAt); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to write session")
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// Delete removes the session.
func (r *postgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep deletes sessions idle for longer than the TTL.
func (r *postgresSessionRepository) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-r.ttl)

	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to sweep sessions")
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}

	removed := int(tag.RowsAffected())
	r.logger.Debug().Int("removed", removed).Msg("swept expired sessions")

	return removed, nil
}
