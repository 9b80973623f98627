package service

import (
	"cycle-kart/internal/catalog"
	"cycle-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// buildCartView joins cart lines with the catalogue. Lines whose product no
// longer resolves are skipped.
func buildCartView(cat *catalog.Catalog, cart model.Cart, logger zerolog.Logger) model.CartView {
	view := model.CartView{
		Items: make([]model.CartItemView, 0, len(cart.Lines)),
		Total: decimal.Zero,
	}

	for _, line := range cart.Lines {
		product, ok := cat.FindByID(line.ProductID)
		if !ok {
			logger.Warn().
				Int("product_id", line.ProductID).
				Msg("skipping cart line for unknown product")
			continue
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, model.CartItemView{
			Product:  product,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += line.Quantity
	}

	return view
}
