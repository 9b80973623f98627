package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/metrics"
	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const orderPlacedMessage = "Order placed successfully! Thank you for your purchase."

// orderService implements OrderService.
type orderService struct {
	catalog   *catalog.Catalog
	sessions  repository.SessionRepository
	confirmer OrderConfirmer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service. A nil confirmer accepts every order.
func NewOrderService(cat *catalog.Catalog, sessions repository.SessionRepository, confirmer OrderConfirmer, logger zerolog.Logger) OrderService {
	if confirmer == nil {
		confirmer = NoopConfirmer{}
	}
	return &orderService{
		catalog:   cat,
		sessions:  sessions,
		confirmer: confirmer,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// Checkout returns the cart for confirmation.
func (s *orderService) Checkout(ctx context.Context, sessionID string) (model.CartView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart for checkout")
		return model.CartView{}, fmt.Errorf("failed to load cart: %w", err)
	}

	if sess.Cart.IsEmpty() {
		return model.CartView{}, model.ErrEmptyCart
	}

	return buildCartView(s.catalog, sess.Cart, s.logger), nil
}

// PlaceOrder confirms the cart's contents and clears the cart. The check for
// an empty cart, the confirmation and the clear happen under one exclusive
// session update, so a concurrent mutation cannot slip in between them.
func (s *orderService) PlaceOrder(ctx context.Context, sessionID string) (*model.Receipt, model.Notification, error) {
	var receipt *model.Receipt

	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.Cart.IsEmpty() {
			return model.ErrEmptyCart
		}

		view := buildCartView(s.catalog, sess.Cart, s.logger)
		draft := model.OrderDraft{
			Reference: uuid.New(),
			SessionID: sessionID,
			Lines:     sess.Cart.Clone().Lines,
			Total:     view.Total,
			CreatedAt: s.now(),
		}

		if err := s.confirmer.Confirm(ctx, draft); err != nil {
			var domainErr *model.DomainError
			if errors.As(err, &domainErr) {
				return err
			}
			return fmt.Errorf("%w: %w", model.ErrOrderRejected, err)
		}

		sess.Cart.Clear()
		receipt = &model.Receipt{
			Reference: draft.Reference,
			Items:     view.Items,
			Total:     view.Total,
			Count:     view.Count,
			PlacedAt:  draft.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, model.Notification{}, s.fail(sessionID, err)
	}

	metrics.OrdersPlacedTotal.Inc()
	metrics.OrderItemsTotal.Add(float64(receipt.Count))
	s.logger.Info().
		Str("session_id", sessionID).
		Str("reference", receipt.Reference.String()).
		Str("total", receipt.Total.StringFixed(2)).
		Int("items", receipt.Count).
		Msg("order placed")

	return receipt, model.SuccessNotification(orderPlacedMessage), nil
}

func (s *orderService) fail(sessionID string, err error) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		metrics.CartRejectionsTotal.WithLabelValues(opOrder, domainErr.Code).Inc()
		event := s.logger.Debug()
		if domainErr.Code == model.ErrCodeOrderRejected {
			event = s.logger.Warn().Err(err)
		}
		event.Str("session_id", sessionID).Str("code", domainErr.Code).Msg("order not placed")
		return err
	}

	s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to place order")
	return fmt.Errorf("failed to place order: %w", err)
}
