package store

import (
	"context"

	"github.com/autofleet/garage-api/internal/domain"
)

// BrandStore defines read access to the brand catalog. Catalog data is
// maintained by seed migrations, so there is no write surface.
type BrandStore interface {
	// List retrieves all brands ordered by name.
	List(ctx context.Context) ([]*domain.Brand, error)

	// GetByID retrieves a brand by ID.
	// Returns ErrBrandNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)
}

// CarModelStore defines read access to the car model catalog.
type CarModelStore interface {
	// List retrieves all car models ordered by brand and name.
	List(ctx context.Context) ([]*domain.CarModel, error)

	// GetByID retrieves a car model by ID.
	// Returns ErrCarModelNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.CarModel, error)
}

// ColorStore defines read access to the color catalog.
type ColorStore interface {
	// List retrieves all colors ordered by name.
	List(ctx context.Context) ([]*domain.Color, error)

	// GetByID retrieves a color by ID.
	// Returns ErrColorNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Color, error)
}
