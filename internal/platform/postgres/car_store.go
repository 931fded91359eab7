package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/platform/logger"
	"github.com/autofleet/garage-api/internal/store"
)

// carColumns are the car columns writable through the field-map write
// path. Field maps come from task payloads, so names are checked against
// this list before being interpolated into SQL.
var carColumns = map[string]bool{
	"brand_id":      true,
	"car_model_id":  true,
	"color_id":      true,
	"user_id":       true,
	"year":          true,
	"mileage_value": true,
	"mileage_unit":  true,
	"color":         true,
}

// carSelectColumns is the shared projection for car reads with
// relations resolved.
const carSelectColumns = `
	c.id, c.brand_id, c.car_model_id, c.color_id, c.user_id,
	c.year, c.mileage_value, c.mileage_unit, c.color,
	c.created_at, c.updated_at,
	b.name, b.created_at, b.updated_at,
	m.brand_id, m.name, m.created_at, m.updated_at,
	co.name, co.hex_code, co.rgb_code, co.created_at, co.updated_at
`

const carSelectJoins = `
	FROM cars c
	JOIN brands b ON b.id = c.brand_id
	JOIN car_models m ON m.id = c.car_model_id
	LEFT JOIN colors co ON co.id = c.color_id
`

// PostgresCarStore implements the store.CarStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCarStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCarStore creates a new PostgreSQL implementation of the
// CarStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCarStore(db store.DBTX, logger *slog.Logger) *PostgresCarStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCarStore{
		db:     db,
		logger: logger.With(slog.String("component", "car_store")),
	}
}

// Ensure PostgresCarStore implements store.CarStore interface
var _ store.CarStore = (*PostgresCarStore)(nil)

// WithTx implements store.CarStore.WithTx
func (s *PostgresCarStore) WithTx(tx *sql.Tx) store.CarStore {
	return &PostgresCarStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetForUser implements store.CarStore.GetForUser
func (s *PostgresCarStore) GetForUser(ctx context.Context, userID int64) ([]*domain.Car, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + carSelectColumns + carSelectJoins + `
	WHERE c.user_id = $1
	ORDER BY c.created_at DESC, c.id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cars for user",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		car, err := scanCarWithRelations(rows)
		if err != nil {
			log.Error("failed to scan car row",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car rows: %w", err)
	}

	return cars, nil
}

// FindForUser implements store.CarStore.FindForUser
// A car owned by another user yields ErrCarNotFound, the same as a car
// that does not exist, so callers cannot probe foreign IDs.
func (s *PostgresCarStore) FindForUser(ctx context.Context, carID, userID int64) (*domain.Car, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + carSelectColumns + carSelectJoins + `
	WHERE c.id = $1 AND c.user_id = $2`

	car, err := scanCarWithRelations(s.db.QueryRowContext(ctx, query, carID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("car not found for user",
				slog.Int64("car_id", carID),
				slog.Int64("user_id", userID))
			return nil, store.ErrCarNotFound
		}
		log.Error("failed to find car for user",
			slog.Int64("car_id", carID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return car, nil
}

// GetByID implements store.CarStore.GetByID
func (s *PostgresCarStore) GetByID(ctx context.Context, carID int64) (*domain.Car, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, brand_id, car_model_id, color_id, user_id,
		       year, mileage_value, mileage_unit, color,
		       created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	car, err := scanCar(s.db.QueryRowContext(ctx, query, carID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("car not found", slog.Int64("car_id", carID))
			return nil, store.ErrCarNotFound
		}
		log.Error("failed to get car by ID",
			slog.Int64("car_id", carID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return car, nil
}

// CreateFromFields implements store.CarStore.CreateFromFields
func (s *PostgresCarStore) CreateFromFields(ctx context.Context, fields map[string]any) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := insertCarQuery(fields, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		log.Error("failed to insert car",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Info("car created", slog.Int64("car_id", id))
	return id, nil
}

// UpdateFields implements store.CarStore.UpdateFields
func (s *PostgresCarStore) UpdateFields(ctx context.Context, carID int64, fields map[string]any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := updateCarQuery(carID, fields, time.Now().UTC())
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update car",
			slog.Int64("car_id", carID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCarNotFound); err != nil {
		return err
	}

	log.Info("car updated", slog.Int64("car_id", carID))
	return nil
}

// Delete implements store.CarStore.Delete
func (s *PostgresCarStore) Delete(ctx context.Context, carID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, carID)
	if err != nil {
		log.Error("failed to delete car",
			slog.Int64("car_id", carID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCarNotFound); err != nil {
		return err
	}

	log.Info("car deleted", slog.Int64("car_id", carID))
	return nil
}

// insertCarQuery builds the INSERT statement for a flattened field map.
// Columns are sorted so the statement is deterministic for a given map.
func insertCarQuery(fields map[string]any, now time.Time) (string, []any, error) {
	names, err := sortedCarColumns(fields)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("no fields to insert")
	}

	columns := make([]string, 0, len(names)+2)
	placeholders := make([]string, 0, len(names)+2)
	args := make([]any, 0, len(names)+2)

	for i, name := range names {
		columns = append(columns, name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, fields[name])
	}

	columns = append(columns, "created_at", "updated_at")
	placeholders = append(placeholders,
		fmt.Sprintf("$%d", len(names)+1),
		fmt.Sprintf("$%d", len(names)+2))
	args = append(args, now, now)

	query := fmt.Sprintf(
		"INSERT INTO cars (%s) VALUES (%s) RETURNING id",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args, nil
}

// updateCarQuery builds the partial UPDATE statement for a flattened
// field map.
func updateCarQuery(carID int64, fields map[string]any, now time.Time) (string, []any, error) {
	names, err := sortedCarColumns(fields)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	assignments := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+2)

	for i, name := range names {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, fields[name])
	}

	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(names)+1))
	args = append(args, now, carID)

	query := fmt.Sprintf(
		"UPDATE cars SET %s WHERE id = $%d",
		strings.Join(assignments, ", "),
		len(names)+2,
	)
	return query, args, nil
}

// sortedCarColumns validates field names against the writable column
// list and returns them sorted.
func sortedCarColumns(fields map[string]any) ([]string, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !carColumns[name] {
			return nil, fmt.Errorf("unknown car column %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCar reads a bare car row without relations.
func scanCar(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	var mileageUnit sql.NullString

	err := row.Scan(
		&car.ID,
		&car.BrandID,
		&car.CarModelID,
		&car.ColorID,
		&car.UserID,
		&car.Year,
		&car.MileageValue,
		&mileageUnit,
		&car.LegacyColor,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if mileageUnit.Valid {
		unit := domain.MileageUnit(mileageUnit.String)
		car.MileageUnit = &unit
	}

	return &car, nil
}

// scanCarWithRelations reads a car row joined with its brand, model and
// optional color.
func scanCarWithRelations(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	var brand domain.Brand
	var model domain.CarModel
	var mileageUnit sql.NullString
	var colorName, colorHex, colorRGB sql.NullString
	var colorCreatedAt, colorUpdatedAt sql.NullTime

	err := row.Scan(
		&car.ID,
		&car.BrandID,
		&car.CarModelID,
		&car.ColorID,
		&car.UserID,
		&car.Year,
		&car.MileageValue,
		&mileageUnit,
		&car.LegacyColor,
		&car.CreatedAt,
		&car.UpdatedAt,
		&brand.Name,
		&brand.CreatedAt,
		&brand.UpdatedAt,
		&model.BrandID,
		&model.Name,
		&model.CreatedAt,
		&model.UpdatedAt,
		&colorName,
		&colorHex,
		&colorRGB,
		&colorCreatedAt,
		&colorUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if mileageUnit.Valid {
		unit := domain.MileageUnit(mileageUnit.String)
		car.MileageUnit = &unit
	}

	brand.ID = car.BrandID
	car.Brand = &brand

	model.ID = car.CarModelID
	car.CarModel = &model

	if car.ColorID != nil {
		car.Color = &domain.Color{
			ID:        *car.ColorID,
			Name:      colorName.String,
			HexCode:   colorHex.String,
			RGBCode:   colorRGB.String,
			CreatedAt: colorCreatedAt.Time,
			UpdatedAt: colorUpdatedAt.Time,
		}
	}

	return &car, nil
}
