package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autofleet/garage-api/internal/domain"
	"github.com/autofleet/garage-api/internal/store"
	"github.com/autofleet/garage-api/internal/task"
)

// CarRepository defines the repository interface for the service layer.
// Reads and deletes run synchronously; creation and update writes go
// through background tasks instead, so they have no place here.
type CarRepository interface {
	// GetForUser retrieves all cars owned by the user with relations.
	GetForUser(ctx context.Context, userID int64) ([]*domain.Car, error)

	// FindForUser retrieves a single car scoped to the owning user.
	FindForUser(ctx context.Context, carID, userID int64) (*domain.Car, error)

	// GetByID retrieves a car regardless of owner, for ownership checks.
	GetByID(ctx context.Context, carID int64) (*domain.Car, error)

	// Delete removes a car.
	Delete(ctx context.Context, carID int64) error
}

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task task.Task) error
}

// CarCreationTaskFactory creates car creation tasks
type CarCreationTaskFactory interface {
	// CreateTask builds a pending creation task from request data
	CreateTask(data *domain.CreateCarData) (task.Task, error)
}

// CarUpdateTaskFactory creates car update tasks
type CarUpdateTaskFactory interface {
	// CreateTask builds a pending update task from request data and the
	// pre-update field snapshot
	CreateTask(carID int64, data *domain.UpdateCarData, original map[string]any) (task.Task, error)
}

// CarService provides car-related operations.
//
// CreateCar and UpdateCar are asynchronous: they validate, authorize
// and enqueue, and return before any row is written. Callers observe
// the eventual result through subsequent reads.
type CarService interface {
	// ListCars retrieves all cars owned by the user.
	ListCars(ctx context.Context, userID int64) ([]*domain.Car, error)

	// GetCar retrieves one of the user's cars. Returns ErrCarNotFound
	// when the car does not exist or belongs to another user; read
	// requests never reveal which.
	GetCar(ctx context.Context, carID, userID int64) (*domain.Car, error)

	// CreateCar enqueues creation of a new car from validated data.
	CreateCar(ctx context.Context, data *domain.CreateCarData) error

	// UpdateCar enqueues a partial update to one of the user's cars.
	// Returns ErrCarNotFound if the car does not exist, ErrCarNotOwned
	// if it belongs to someone else, ErrNoChanges for an empty patch.
	UpdateCar(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error

	// DeleteCar removes one of the user's cars synchronously.
	// Returns ErrCarNotFound or ErrCarNotOwned like UpdateCar.
	DeleteCar(ctx context.Context, carID, userID int64) error
}

// CarServiceError wraps unexpected errors from the car service with context.
type CarServiceError struct {
	// Operation is the operation that failed (e.g., "create_car", "update_car")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for CarServiceError.
func (e *CarServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("car service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("car service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CarServiceError) Unwrap() error {
	return e.Err
}

// NewCarServiceError creates a new CarServiceError.
// It returns known sentinel errors directly without wrapping.
func NewCarServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCarNotFound) || errors.Is(err, ErrCarNotOwned) || errors.Is(err, ErrNoChanges) {
		return err
	}

	if errors.Is(err, store.ErrCarNotFound) {
		return ErrCarNotFound
	}

	return &CarServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// carServiceImpl implements the CarService interface
type carServiceImpl struct {
	carRepo         CarRepository
	taskRunner      TaskRunner
	creationFactory CarCreationTaskFactory
	updateFactory   CarUpdateTaskFactory
	logger          *slog.Logger
}

// NewCarService creates a new CarService.
// It returns an error if any of the required dependencies are nil.
func NewCarService(
	carRepo CarRepository,
	taskRunner TaskRunner,
	creationFactory CarCreationTaskFactory,
	updateFactory CarUpdateTaskFactory,
	logger *slog.Logger,
) (CarService, error) {
	if carRepo == nil {
		return nil, &CarServiceError{Operation: "create_service", Message: "carRepo cannot be nil"}
	}
	if taskRunner == nil {
		return nil, &CarServiceError{Operation: "create_service", Message: "taskRunner cannot be nil"}
	}
	if creationFactory == nil {
		return nil, &CarServiceError{Operation: "create_service", Message: "creationFactory cannot be nil"}
	}
	if updateFactory == nil {
		return nil, &CarServiceError{Operation: "create_service", Message: "updateFactory cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &carServiceImpl{
		carRepo:         carRepo,
		taskRunner:      taskRunner,
		creationFactory: creationFactory,
		updateFactory:   updateFactory,
		logger:          logger.With("component", "car_service"),
	}, nil
}

// ListCars retrieves all cars owned by the user
func (s *carServiceImpl) ListCars(ctx context.Context, userID int64) ([]*domain.Car, error) {
	cars, err := s.carRepo.GetForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list cars",
			"error", err,
			"user_id", userID)
		return nil, NewCarServiceError("list_cars", "failed to retrieve cars", err)
	}
	return cars, nil
}

// GetCar retrieves one of the user's cars
func (s *carServiceImpl) GetCar(ctx context.Context, carID, userID int64) (*domain.Car, error) {
	car, err := s.carRepo.FindForUser(ctx, carID, userID)
	if err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return nil, ErrCarNotFound
		}
		s.logger.Error("failed to get car",
			"error", err,
			"car_id", carID,
			"user_id", userID)
		return nil, NewCarServiceError("get_car", "failed to retrieve car", err)
	}
	return car, nil
}

// CreateCar enqueues creation of a new car
func (s *carServiceImpl) CreateCar(ctx context.Context, data *domain.CreateCarData) error {
	t, err := s.creationFactory.CreateTask(data)
	if err != nil {
		s.logger.Error("failed to build car creation task",
			"error", err,
			"user_id", data.UserID)
		return NewCarServiceError("create_car", "failed to build creation task", err)
	}

	if err := s.taskRunner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to submit car creation task",
			"error", err,
			"task_id", t.ID(),
			"user_id", data.UserID)
		return NewCarServiceError("create_car", "failed to enqueue creation task", err)
	}

	s.logger.Info("car creation task enqueued",
		"task_id", t.ID(),
		"user_id", data.UserID)
	return nil
}

// UpdateCar enqueues a partial update to one of the user's cars
func (s *carServiceImpl) UpdateCar(ctx context.Context, carID, userID int64, data *domain.UpdateCarData) error {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return ErrCarNotFound
		}
		return NewCarServiceError("update_car", "failed to load car for ownership check", err)
	}

	if car.UserID != userID {
		s.logger.Warn("rejected update of car owned by another user",
			"car_id", carID,
			"owner_id", car.UserID,
			"user_id", userID)
		return ErrCarNotOwned
	}

	if !data.HasChanges() {
		return ErrNoChanges
	}

	// Snapshot the current field values before the change is applied,
	// so the task payload records what the update replaced.
	original := car.SnapshotFields()

	t, err := s.updateFactory.CreateTask(carID, data, original)
	if err != nil {
		s.logger.Error("failed to build car update task",
			"error", err,
			"car_id", carID)
		return NewCarServiceError("update_car", "failed to build update task", err)
	}

	if err := s.taskRunner.Submit(ctx, t); err != nil {
		s.logger.Error("failed to submit car update task",
			"error", err,
			"task_id", t.ID(),
			"car_id", carID)
		return NewCarServiceError("update_car", "failed to enqueue update task", err)
	}

	s.logger.Info("car update task enqueued",
		"task_id", t.ID(),
		"car_id", carID,
		"user_id", userID)
	return nil
}

// DeleteCar removes one of the user's cars
func (s *carServiceImpl) DeleteCar(ctx context.Context, carID, userID int64) error {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return ErrCarNotFound
		}
		return NewCarServiceError("delete_car", "failed to load car for ownership check", err)
	}

	if car.UserID != userID {
		s.logger.Warn("rejected deletion of car owned by another user",
			"car_id", carID,
			"owner_id", car.UserID,
			"user_id", userID)
		return ErrCarNotOwned
	}

	if err := s.carRepo.Delete(ctx, carID); err != nil {
		if errors.Is(err, store.ErrCarNotFound) {
			return ErrCarNotFound
		}
		return NewCarServiceError("delete_car", "failed to delete car", err)
	}

	s.logger.Info("car deleted",
		"car_id", carID,
		"user_id", userID)
	return nil
}
