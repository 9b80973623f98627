package catalog

import (
	"context"

	"cycle-kart/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultProducts returns the built-in bicycle range.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          1,
			Name:        "Mountain Explorer 3000",
			Category:    "Mountain Bike",
			Price:       decimal.RequireFromString("599.99"),
			Description: "High-performance mountain bike with 21-speed gears and front suspension.",
			Image:       "mountain-bike.jpg",
			Stock:       15,
		},
		{
			ID:          2,
			Name:        "City Cruiser Pro",
			Category:    "City Bike",
			Price:       decimal.RequireFromString("399.99"),
			Description: "Comfortable city bike perfect for daily commutes and leisure rides.",
			Image:       "city-bike.jpg",
			Stock:       20,
		},
		{
			ID:          3,
			Name:        "Road Racer Elite",
			Category:    "Road Bike",
			Price:       decimal.RequireFromString("899.99"),
			Description: "Lightweight carbon frame road bike designed for speed and endurance.",
			Image:       "road-bike.jpg",
			Stock:       10,
		},
		{
			ID:          4,
			Name:        "Kids Adventure 200",
			Category:    "Kids Bike",
			Price:       decimal.RequireFromString("199.99"),
			Description: "Safe and fun bike for children aged 6-10 with training wheels included.",
			Image:       "kids-bike.jpg",
			Stock:       25,
		},
		{
			ID:          5,
			Name:        "Electric Commuter",
			Category:    "E-Bike",
			Price:       decimal.RequireFromString("1499.99"),
			Description: "Electric bike with 50-mile range, perfect for eco-friendly commuting.",
			Image:       "electric-bike.jpg",
			Stock:       8,
		},
		{
			ID:          6,
			Name:        "Folding Compact 150",
			Category:    "Folding Bike",
			Price:       decimal.RequireFromString("299.99"),
			Description: "Compact folding bike ideal for storage and multi-modal transport.",
			Image:       "folding-bike.jpg",
			Stock:       12,
		},
	}
}

// staticLoader implements Loader by returning the built-in range.
type staticLoader struct{}

// NewStaticLoader creates a loader that ignores its path and returns DefaultProducts.
func NewStaticLoader() Loader {
	return staticLoader{}
}

// Load returns the built-in products.
func (staticLoader) Load(_ context.Context, _ string) ([]model.Product, error) {
	return DefaultProducts(), nil
}
