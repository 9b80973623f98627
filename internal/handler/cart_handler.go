package handler

import (
	"errors"
	"fmt"
	"net/http"

	"cycle-kart/internal/model"
	"cycle-kart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart page and cart mutation requests.
type CartHandler struct {
	carts service.CartService
	redirector
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, flashes service.FlashService, logger zerolog.Logger) *CartHandler {
	logger = logger.With().Str("handler", "cart").Logger()
	return &CartHandler{
		carts:      carts,
		redirector: redirector{flashes: flashes, logger: logger},
	}
}

// View handles GET /cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.carts.View(r.Context(), sid)
	if err != nil {
		writeInternalError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CartPage{
		CartView:      view,
		Notifications: h.popFlashes(r, sid),
	})
}

// Add handles POST /cart/add/{id} requests. The quantity defaults to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, r, sid, "/", model.ErrProductNotFound)
		return
	}
	productPage := fmt.Sprintf("/product/%d", id)

	quantity, err := formQuantity(r, 1)
	if err != nil {
		h.fail(w, r, sid, productPage, err)
		return
	}

	n, err := h.carts.Add(r.Context(), sid, id, quantity)
	switch {
	case err == nil:
		h.redirect(w, r, sid, "/", n)
	case errors.Is(err, model.ErrProductNotFound):
		h.fail(w, r, sid, "/", err)
	default:
		h.fail(w, r, sid, productPage, err)
	}
}

// Update handles POST /cart/update/{id} requests. A missing quantity is
// treated as 0, which removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, r, sid, "/cart", model.ErrProductNotFound)
		return
	}

	quantity, err := formQuantity(r, 0)
	if err != nil {
		h.fail(w, r, sid, "/cart", err)
		return
	}

	n, err := h.carts.Update(r.Context(), sid, id, quantity)
	if err != nil {
		h.fail(w, r, sid, "/cart", err)
		return
	}
	h.redirect(w, r, sid, "/cart", n)
}

// Remove handles GET /cart/remove/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, r, sid, "/cart", model.ErrProductNotFound)
		return
	}

	n, err := h.carts.Remove(r.Context(), sid, id)
	if err != nil {
		h.fail(w, r, sid, "/cart", err)
		return
	}
	h.redirect(w, r, sid, "/cart", n)
}
