package service

import (
	"context"

	"cycle-kart/internal/model"
)

// NoopConfirmer accepts every order. It is the default confirmer: placing an
// order only clears the cart.
type NoopConfirmer struct{}

// Confirm always succeeds.
func (NoopConfirmer) Confirm(context.Context, model.OrderDraft) error {
	return nil
}

// ConfirmerFunc adapts a function to the OrderConfirmer interface.
type ConfirmerFunc func(ctx context.Context, draft model.OrderDraft) error

// Confirm calls f(ctx, draft).
func (f ConfirmerFunc) Confirm(ctx context.Context, draft model.OrderDraft) error {
	return f(ctx, draft)
}
