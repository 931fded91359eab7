package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/platform/logger"
	"github.com/autofleet/garage-api/internal/store"
)

// PostgresBrandStore implements the store.BrandStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBrandStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBrandStore creates a new PostgreSQL implementation of the
// BrandStore interface.
func NewPostgresBrandStore(db store.DBTX, logger *slog.Logger) *PostgresBrandStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBrandStore{
		db:     db,
		logger: logger.With(slog.String("component", "brand_store")),
	}
}

var _ store.BrandStore = (*PostgresBrandStore)(nil)

// List implements store.BrandStore.List
func (s *PostgresBrandStore) List(ctx context.Context) ([]*domain.Brand, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at, updated_at
		FROM brands
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query brands", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	brands := make([]*domain.Brand, 0)
	for rows.Next() {
		var brand domain.Brand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.CreatedAt, &brand.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand row: %w", err)
		}
		brands = append(brands, &brand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand rows: %w", err)
	}

	return brands, nil
}

// GetByID implements store.BrandStore.GetByID
func (s *PostgresBrandStore) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM brands
		WHERE id = $1
	`

	var brand domain.Brand
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&brand.ID, &brand.Name, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBrandNotFound
		}
		return nil, err
	}

	return &brand, nil
}

// PostgresCarModelStore implements the store.CarModelStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCarModelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCarModelStore creates a new PostgreSQL implementation of
// the CarModelStore interface.
func NewPostgresCarModelStore(db store.DBTX, logger *slog.Logger) *PostgresCarModelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCarModelStore{
		db:     db,
		logger: logger.With(slog.String("component", "car_model_store")),
	}
}

var _ store.CarModelStore = (*PostgresCarModelStore)(nil)

// List implements store.CarModelStore.List
func (s *PostgresCarModelStore) List(ctx context.Context) ([]*domain.CarModel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, brand_id, name, created_at, updated_at
		FROM car_models
		ORDER BY brand_id ASC, name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query car models", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	models := make([]*domain.CarModel, 0)
	for rows.Next() {
		var model domain.CarModel
		if err := rows.Scan(&model.ID, &model.BrandID, &model.Name, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car model row: %w", err)
		}
		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car model rows: %w", err)
	}

	return models, nil
}

// GetByID implements store.CarModelStore.GetByID
func (s *PostgresCarModelStore) GetByID(ctx context.Context, id int64) (*domain.CarModel, error) {
	query := `
		SELECT id, brand_id, name, created_at, updated_at
		FROM car_models
		WHERE id = $1
	`

	var model domain.CarModel
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&model.ID, &model.BrandID, &model.Name, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCarModelNotFound
		}
		return nil, err
	}

	return &model, nil
}

// PostgresColorStore implements the store.ColorStore interface
// using a PostgreSQL database as the storage backend.
type PostgresColorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresColorStore creates a new PostgreSQL implementation of the
// ColorStore interface.
func NewPostgresColorStore(db store.DBTX, logger *slog.Logger) *PostgresColorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresColorStore{
		db:     db,
		logger: logger.With(slog.String("component", "color_store")),
	}
}

var _ store.ColorStore = (*PostgresColorStore)(nil)

// List implements store.ColorStore.List
func (s *PostgresColorStore) List(ctx context.Context) ([]*domain.Color, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, hex_code, rgb_code, created_at, updated_at
		FROM colors
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query colors", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	colors := make([]*domain.Color, 0)
	for rows.Next() {
		var color domain.Color
		if err := rows.Scan(&color.ID, &color.Name, &color.HexCode, &color.RGBCode, &color.CreatedAt, &color.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan color row: %w", err)
		}
		colors = append(colors, &color)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating color rows: %w", err)
	}

	return colors, nil
}

// GetByID implements store.ColorStore.GetByID
func (s *PostgresColorStore) GetByID(ctx context.Context, id int64) (*domain.Color, error) {
	query := `
		SELECT id, name, hex_code, rgb_code, created_at, updated_at
		FROM colors
		WHERE id = $1
	`

	var color domain.Color
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&color.ID, &color.Name, &color.HexCode, &color.RGBCode, &color.CreatedAt, &color.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrColorNotFound
		}
		return nil, err
	}

	return &color, nil
}
