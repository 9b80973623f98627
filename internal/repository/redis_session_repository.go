package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cycle-kart/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// releaseLockScript deletes the lock only if it is still held by the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions tunes the Redis session repository.
type RedisOptions struct {
	TTL          time.Duration
	LockTTL      time.Duration
	LockTimeout  time.Duration
	LockInterval time.Duration
}

// DefaultRedisOptions returns sensible defaults for the given session TTL.
func DefaultRedisOptions(ttl time.Duration) RedisOptions {
	return RedisOptions{
		TTL:          ttl,
		LockTTL:      5 * time.Second,
		LockTimeout:  2 * time.Second,
		LockInterval: 10 * time.Millisecond,
	}
}

// redisSessionRepository implements SessionRepository on Redis. Sessions are
// JSON values with a key TTL; Update holds a per-session SETNX lock.
type redisSessionRepository struct {
	rdb    *redis.Client
	opts   RedisOptions
	logger zerolog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// NewRedisSessionRepository creates a Redis-backed session repository.
func NewRedisSessionRepository(rdb *redis.Client, opts RedisOptions, logger zerolog.Logger) SessionRepository {
	return &redisSessionRepository{
		rdb:    rdb,
		opts:   opts,
		logger: logger.With().Str("repository", "session-redis").Logger(),
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func lockKey(id string) string {
	return fmt.Sprintf("lock:session:%s", id)
}

// Get returns the session for id.
func (r *redisSessionRepository) Get(ctx context.Context, id string) (model.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, nil
		}
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to read session")
		return model.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn().Err(err).Str("session_id", id).Msg("discarding undecodable session")
		return model.Session{}, nil
	}
	return s, nil
}

// Update runs fn while holding the session lock.
func (r *redisSessionRepository) Update(ctx context.Context, id string, fn func(s *model.Session) error) error {
	token, err := r.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer r.release(id, token)

	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(&s); err != nil {
		return err
	}

	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.rdb.Set(ctx, sessionKey(id), data, r.opts.TTL).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to write session")
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// acquire polls SETNX until the lock is taken, the lock timeout elapses or ctx is done.
func (r *redisSessionRepository) acquire(ctx context.Context, id string) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(r.opts.LockTimeout)

	for {
		ok, err := r.rdb.SetNX(ctx, lockKey(id), token, r.opts.LockTTL).Result()
		if err != nil {
			r.logger.Error().Err(err).Str("session_id", id).Msg("failed to acquire session lock")
			return "", fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			r.logger.Warn().Str("session_id", id).Msg("timed out waiting for session lock")
			return "", ErrSessionBusy
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.opts.LockInterval):
		}
	}
}

func (r *redisSessionRepository) release(id, token string) {
	// Release even when the request context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, r.rdb, []string{lockKey(id)}, token).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to release session lock")
	}
}

// Delete removes the session.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep is a no-op: Redis expires session keys itself.
func (r *redisSessionRepository) Sweep(_ context.Context) (int, error) {
	return 0, nil
}
