package service

import (
	"context"
	"fmt"

	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"

	"github.com/rs/zerolog"
)

// maxFlashes bounds the queue for visitors who keep posting without ever
// rendering a page. The oldest notifications are dropped first.
const maxFlashes = 20

// flashService implements FlashService.
type flashService struct {
	sessions repository.SessionRepository
	logger   zerolog.Logger
}

// NewFlashService creates a new flash service.
func NewFlashService(sessions repository.SessionRepository, logger zerolog.Logger) FlashService {
	return &flashService{
		sessions: sessions,
		logger:   logger.With().Str("service", "flash").Logger(),
	}
}

// Push queues a notification for the next page render.
func (s *flashService) Push(ctx context.Context, sessionID string, n model.Notification) error {
	if n.IsZero() {
		return nil
	}

	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		sess.Flashes = append(sess.Flashes, n)
		if over := len(sess.Flashes) - maxFlashes; over > 0 {
			sess.Flashes = sess.Flashes[over:]
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to queue notification")
		return fmt.Errorf("failed to queue notification: %w", err)
	}
	return nil
}

// Pop returns and discards the queued notifications. Sessions with nothing
// queued are not written.
func (s *flashService) Pop(ctx context.Context, sessionID string) ([]model.Notification, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load notifications")
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	if len(sess.Flashes) == 0 {
		return []model.Notification{}, nil
	}

	var popped []model.Notification
	err = s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		popped = sess.Flashes
		sess.Flashes = nil
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear notifications")
		return nil, fmt.Errorf("failed to clear notifications: %w", err)
	}

	if popped == nil {
		popped = []model.Notification{}
	}
	return popped, nil
}
