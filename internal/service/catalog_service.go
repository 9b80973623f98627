package service

import (
	"context"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(cat *catalog.Catalog, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: cat,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// List returns every product in catalogue order.
func (s *catalogService) List(_ context.Context) []model.Product {
	return s.catalog.All()
}

// Get returns a single product.
func (s *catalogService) Get(_ context.Context, id int) (model.Product, error) {
	product, ok := s.catalog.FindByID(id)
	if !ok {
		s.logger.Debug().Int("product_id", id).Msg("product not found")
		return model.Product{}, model.ErrProductNotFound
	}
	return product, nil
}
