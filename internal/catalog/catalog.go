package catalog

import (
	"context"
	"fmt"

	"cycle-kart/internal/model"
)

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue file (a JSON array of products, gzipped when
	// the path ends in .gz) and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Catalog is an immutable, read-only set of products.
// It is safe for concurrent use.
type Catalog struct {
	products []model.Product
	index    map[int]int
}

// New builds a catalogue from products. Product IDs must be unique and
// positive; prices and stock must be non-negative.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, len(products)),
		index:    make(map[int]int, len(products)),
	}

	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product %q: id must be positive, got %d", p.Name, p.ID)
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %d: price must not be negative", p.ID)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %d: stock must not be negative", p.ID)
		}
		c.products[i] = p
		c.index[p.ID] = i
	}

	return c, nil
}

// FindByID returns the product with the given id.
func (c *Catalog) FindByID(id int) (model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// All returns every product in catalogue order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
