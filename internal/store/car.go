package store

import (
	"context"
	"database/sql"

	"github.com/autofleet/garage-api/internal/domain"
)

// CarStore defines the interface for car data persistence.
//
// Write operations take the flattened field representation produced by
// the mutation payloads (nil fields omitted, mileage split into
// mileage_value/mileage_unit) because they are executed asynchronously
// from captured task data, not from live request state.
type CarStore interface {
	// GetForUser retrieves all cars owned by the given user, with brand,
	// model and color relations resolved. Returns an empty slice when
	// the user owns no cars.
	GetForUser(ctx context.Context, userID int64) ([]*domain.Car, error)

	// FindForUser retrieves a single car by ID scoped to the owning
	// user, with relations resolved. Returns ErrCarNotFound when the car
	// does not exist or belongs to someone else; callers deliberately
	// cannot distinguish the two cases.
	FindForUser(ctx context.Context, carID, userID int64) (*domain.Car, error)

	// GetByID retrieves a car by ID regardless of owner, without
	// relations. Used for ownership checks before mutating.
	// Returns ErrCarNotFound if the car does not exist.
	GetByID(ctx context.Context, carID int64) (*domain.Car, error)

	// CreateFromFields inserts a new car from flattened column values
	// and returns the new row's ID. Returns ErrInvalidEntity when a
	// referenced brand, model, color or user does not exist.
	CreateFromFields(ctx context.Context, fields map[string]any) (int64, error)

	// UpdateFields applies a partial column update to the car. Only the
	// columns present in fields are touched. Returns ErrCarNotFound if
	// the car no longer exists.
	UpdateFields(ctx context.Context, carID int64, fields map[string]any) error

	// Delete removes the car. Returns ErrCarNotFound if it does not exist.
	Delete(ctx context.Context, carID int64) error

	// WithTx returns a CarStore bound to the given transaction.
	WithTx(tx *sql.Tx) CarStore
}
