package handler

import (
	"net/http"

	"cycle-kart/internal/model"
	"cycle-kart/internal/service"

	"github.com/rs/zerolog"
)

// StoreHandler serves the product listing and product detail pages.
type StoreHandler struct {
	catalog service.CatalogService
	carts   service.CartService
	redirector
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(catalog service.CatalogService, carts service.CartService, flashes service.FlashService, logger zerolog.Logger) *StoreHandler {
	logger = logger.With().Str("handler", "store").Logger()
	return &StoreHandler{
		catalog:    catalog,
		carts:      carts,
		redirector: redirector{flashes: flashes, logger: logger},
	}
}

// Index handles GET / requests.
func (h *StoreHandler) Index(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	count, err := h.carts.Count(r.Context(), sid)
	if err != nil {
		writeInternalError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.StoreView{
		Products:      h.catalog.List(r.Context()),
		CartCount:     count,
		Notifications: h.popFlashes(r, sid),
	})
}

// Product handles GET /product/{id} requests.
func (h *StoreHandler) Product(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, r, sid, "/", model.ErrProductNotFound)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, sid, "/", err)
		return
	}

	count, err := h.carts.Count(r.Context(), sid)
	if err != nil {
		writeInternalError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductView{
		Product:       product,
		CartCount:     count,
		Notifications: h.popFlashes(r, sid),
	})
}
