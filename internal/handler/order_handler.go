package handler

import (
	"errors"
	"net/http"

	"cycle-kart/internal/model"
	"cycle-kart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order placement requests.
type OrderHandler struct {
	orders service.OrderService
	redirector
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, flashes service.FlashService, logger zerolog.Logger) *OrderHandler {
	logger = logger.With().Str("handler", "order").Logger()
	return &OrderHandler{
		orders:     orders,
		redirector: redirector{flashes: flashes, logger: logger},
	}
}

// Checkout handles GET /checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.orders.Checkout(r.Context(), sid)
	if err != nil {
		h.fail(w, r, sid, "/", err)
		return
	}

	writeJSON(w, http.StatusOK, model.CartPage{
		CartView:      view,
		Notifications: h.popFlashes(r, sid),
	})
}

// Place handles POST /order requests.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	_, n, err := h.orders.PlaceOrder(r.Context(), sid)
	switch {
	case err == nil:
		h.redirect(w, r, sid, "/", n)
	case errors.Is(err, model.ErrEmptyCart):
		h.fail(w, r, sid, "/", err)
	default:
		h.fail(w, r, sid, "/checkout", err)
	}
}
