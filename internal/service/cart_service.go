package service

import (
	"context"
	"errors"
	"fmt"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/metrics"
	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
	opOrder  = "order"
)

// cartService implements CartService.
type cartService struct {
	catalog  *catalog.Catalog
	sessions repository.SessionRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cat *catalog.Catalog, sessions repository.SessionRepository, logger zerolog.Logger) CartService {
	return &cartService{
		catalog:  cat,
		sessions: sessions,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the session's cart.
func (s *cartService) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return model.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return sess.Cart, nil
}

// Add merges quantity into the product's line, or appends a new line.
func (s *cartService) Add(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error) {
	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return model.Notification{}, s.reject(opAdd, sessionID, productID, model.ErrProductNotFound)
	}

	if quantity <= 0 {
		return model.Notification{}, s.reject(opAdd, sessionID, productID, model.ErrInvalidQuantity)
	}

	if quantity > product.Stock {
		return model.Notification{}, s.reject(opAdd, sessionID, productID, model.NewInsufficientStockError(product.Stock))
	}

	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		line := sess.Cart.Line(productID)
		if line == nil {
			sess.Cart.Lines = append(sess.Cart.Lines, model.CartLine{ProductID: productID, Quantity: quantity})
			return nil
		}

		if line.Quantity+quantity > product.Stock {
			return model.NewInsufficientStockError(product.Stock)
		}
		line.Quantity += quantity
		return nil
	})
	if err != nil {
		return model.Notification{}, s.fail(opAdd, sessionID, productID, err)
	}

	metrics.CartMutationsTotal.WithLabelValues(opAdd).Inc()
	s.logger.Debug().
		Str("session_id", sessionID).
		Int("product_id", productID).
		Int("quantity", quantity).
		Msg("added to cart")

	return model.SuccessNotification(fmt.Sprintf("%s added to cart!", product.Name)), nil
}

// Update replaces the product's quantity. Updating a product that is not in
// the cart changes nothing and returns a zero notification.
func (s *cartService) Update(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error) {
	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return model.Notification{}, s.reject(opUpdate, sessionID, productID, model.ErrProductNotFound)
	}

	var notification model.Notification
	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		line := sess.Cart.Line(productID)
		switch {
		case line == nil:
			return nil
		case quantity <= 0:
			sess.Cart.Remove(productID)
			notification = model.SuccessNotification(fmt.Sprintf("%s removed from cart!", product.Name))
		case quantity > product.Stock:
			return model.NewInsufficientStockError(product.Stock)
		default:
			line.Quantity = quantity
			notification = model.SuccessNotification("Cart updated!")
		}
		return nil
	})
	if err != nil {
		return model.Notification{}, s.fail(opUpdate, sessionID, productID, err)
	}

	if !notification.IsZero() {
		metrics.CartMutationsTotal.WithLabelValues(opUpdate).Inc()
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Int("product_id", productID).
		Int("quantity", quantity).
		Bool("changed", !notification.IsZero()).
		Msg("updated cart")

	return notification, nil
}

// Remove deletes the product's line if present.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID int) (model.Notification, error) {
	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		sess.Cart.Remove(productID)
		return nil
	})
	if err != nil {
		return model.Notification{}, s.fail(opRemove, sessionID, productID, err)
	}

	metrics.CartMutationsTotal.WithLabelValues(opRemove).Inc()

	return model.SuccessNotification("Item removed from cart!"), nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		sess.Cart.Clear()
		return nil
	})
	if err != nil {
		return s.fail(opClear, sessionID, 0, err)
	}

	metrics.CartMutationsTotal.WithLabelValues(opClear).Inc()
	return nil
}

// Total returns the cart total.
func (s *cartService) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	view, err := s.View(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Total, nil
}

// Count returns the number of items in the cart.
func (s *cartService) Count(ctx context.Context, sessionID string) (int, error) {
	view, err := s.View(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return view.Count, nil
}

// View returns the cart joined with the catalogue.
func (s *cartService) View(ctx context.Context, sessionID string) (model.CartView, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return model.CartView{}, err
	}
	return buildCartView(s.catalog, cart, s.logger), nil
}

// reject records a domain rejection and returns it unchanged.
func (s *cartService) reject(op, sessionID string, productID int, err *model.DomainError) error {
	metrics.CartRejectionsTotal.WithLabelValues(op, err.Code).Inc()
	s.logger.Debug().
		Str("operation", op).
		Str("session_id", sessionID).
		Int("product_id", productID).
		Str("code", err.Code).
		Msg("cart operation rejected")
	return err
}

// fail classifies an error returned from a session update.
func (s *cartService) fail(op, sessionID string, productID int, err error) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return s.reject(op, sessionID, productID, domainErr)
	}

	s.logger.Error().
		Err(err).
		Str("operation", op).
		Str("session_id", sessionID).
		Int("product_id", productID).
		Msg("cart operation failed")
	return fmt.Errorf("failed to %s cart: %w", op, err)
}
