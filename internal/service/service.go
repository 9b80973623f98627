package service

import (
	"context"

	"cycle-kart/internal/model"

	"github.com/shopspring/decimal"
)

// CatalogService exposes the read-only product catalogue.
type CatalogService interface {
	// List returns every product in catalogue order.
	List(ctx context.Context) []model.Product

	// Get returns a single product, or model.ErrProductNotFound.
	Get(ctx context.Context, id int) (model.Product, error)
}

// CartService owns the per-session cart and enforces stock limits on every mutation.
type CartService interface {
	// Get returns the session's cart; a session without one has an empty cart.
	Get(ctx context.Context, sessionID string) (model.Cart, error)

	// Add merges quantity into the product's line, or appends a new line.
	Add(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error)

	// Update replaces the product's quantity; a quantity of zero or less removes the line.
	Update(ctx context.Context, sessionID string, productID, quantity int) (model.Notification, error)

	// Remove deletes the product's line if present.
	Remove(ctx context.Context, sessionID string, productID int) (model.Notification, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) error

	// Total returns the sum of price times quantity over the cart's lines.
	Total(ctx context.Context, sessionID string) (decimal.Decimal, error)

	// Count returns the sum of quantities over the cart's lines.
	Count(ctx context.Context, sessionID string) (int, error)

	// View returns the cart joined with the catalogue, with subtotals and totals.
	View(ctx context.Context, sessionID string) (model.CartView, error)
}

// OrderService handles checkout and order placement.
type OrderService interface {
	// Checkout returns the cart for confirmation, or model.ErrEmptyCart.
	Checkout(ctx context.Context, sessionID string) (model.CartView, error)

	// PlaceOrder confirms the order with the configured OrderConfirmer and
	// clears the cart only if confirmation succeeds.
	PlaceOrder(ctx context.Context, sessionID string) (*model.Receipt, model.Notification, error)
}

// FlashService queues one-shot notifications for the next page render.
type FlashService interface {
	// Push queues a notification. Zero notifications are ignored.
	Push(ctx context.Context, sessionID string, n model.Notification) error

	// Pop returns and discards all queued notifications.
	Pop(ctx context.Context, sessionID string) ([]model.Notification, error)
}

// OrderConfirmer is the payment and inventory step of order placement.
// Returning an error rejects the order and leaves the cart untouched.
type OrderConfirmer interface {
	Confirm(ctx context.Context, draft model.OrderDraft) error
}
