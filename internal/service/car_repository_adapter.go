package service

import (
	"context"
	"database/sql"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/store"
)

// NewCarRepositoryAdapter creates an adapter that allows a store.CarStore
// to be used where a CarRepository is expected. Deletes run inside a
// transaction so the existence check and the removal observe the same
// snapshot.
func NewCarRepositoryAdapter(carStore store.CarStore, db *sql.DB) CarRepository {
	return &carRepositoryAdapter{
		carStore: carStore,
		db:       db,
	}
}

// carRepositoryAdapter adapts a store.CarStore to the CarRepository interface
type carRepositoryAdapter struct {
	carStore store.CarStore
	db       *sql.DB
}

// GetForUser implements CarRepository.GetForUser
func (a *carRepositoryAdapter) GetForUser(ctx context.Context, userID int64) ([]*domain.Car, error) {
	return a.carStore.GetForUser(ctx, userID)
}

// FindForUser implements CarRepository.FindForUser
func (a *carRepositoryAdapter) FindForUser(ctx context.Context, carID, userID int64) (*domain.Car, error) {
	return a.carStore.FindForUser(ctx, carID, userID)
}

// GetByID implements CarRepository.GetByID
func (a *carRepositoryAdapter) GetByID(ctx context.Context, carID int64) (*domain.Car, error) {
	return a.carStore.GetByID(ctx, carID)
}

// Delete implements CarRepository.Delete
func (a *carRepositoryAdapter) Delete(ctx context.Context, carID int64) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := a.carStore.WithTx(tx)
		if _, err := txStore.GetByID(ctx, carID); err != nil {
			return err
		}
		return txStore.Delete(ctx, carID)
	})
}
