package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/autofleet/garage-api/internal/domain"
)

// CarUpdater defines the store operation needed to execute a car
// update task.
type CarUpdater interface {
	// UpdateFields applies a partial update to the car with the given ID.
	UpdateFields(ctx context.Context, carID int64, fields map[string]any) error
}

// carUpdatePayload is the persisted form of a car update task. Original
// holds a snapshot of the car's fields before the update, taken at
// request time for audit logging.
type carUpdatePayload struct {
	CarID    int64          `json:"car_id"`
	Fields   map[string]any `json:"fields"`
	Original map[string]any `json:"original"`
}

// CarUpdateTask applies a partial update to an existing car. Fields and
// the original snapshot are captured by value at build time. Updates
// are last-writer-wins: two queued updates for the same car apply in
// whatever order the workers reach them.
type CarUpdateTask struct {
	id       uuid.UUID
	carID    int64
	fields   map[string]any
	original map[string]any
	payload  []byte
	status   TaskStatus
	updater  CarUpdater
	logger   *slog.Logger
}

// NewCarUpdateTask creates a task that applies the given changes to the
// car. The original snapshot should be taken from the car row as it was
// when the request passed ownership checks.
func NewCarUpdateTask(carID int64, data *domain.UpdateCarData, original map[string]any, updater CarUpdater, logger *slog.Logger) (*CarUpdateTask, error) {
	if data == nil {
		return nil, fmt.Errorf("update data cannot be nil")
	}
	if updater == nil {
		return nil, fmt.Errorf("car updater cannot be nil")
	}
	if !data.HasChanges() {
		return nil, fmt.Errorf("update data contains no changes")
	}

	fields := data.Flatten()

	payload, err := json.Marshal(carUpdatePayload{
		CarID:    carID,
		Fields:   fields,
		Original: original,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal car update payload: %w", err)
	}

	return &CarUpdateTask{
		id:       uuid.New(),
		carID:    carID,
		fields:   fields,
		original: original,
		payload:  payload,
		status:   TaskStatusPending,
		updater:  updater,
		logger:   logger.With("task_type", TaskTypeCarUpdate),
	}, nil
}

// ID returns the task's unique identifier.
func (t *CarUpdateTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier.
func (t *CarUpdateTask) Type() string { return TaskTypeCarUpdate }

// Payload returns the serialized task data.
func (t *CarUpdateTask) Payload() []byte { return t.payload }

// Status returns the current task status.
func (t *CarUpdateTask) Status() TaskStatus { return t.status }

// Execute applies the captured field changes to the car.
func (t *CarUpdateTask) Execute(ctx context.Context) error {
	logger := t.logger.With("task_id", t.id, "car_id", t.carID)
	logger.Info("updating car", "changed_fields", fieldNames(t.fields))

	if err := t.updater.UpdateFields(ctx, t.carID, t.fields); err != nil {
		return fmt.Errorf("failed to update car %d: %w", t.carID, err)
	}

	logger.Info("car updated")
	return nil
}

// CarUpdateTaskFactory builds car update tasks with their store
// dependency bound.
type CarUpdateTaskFactory struct {
	updater CarUpdater
	logger  *slog.Logger
}

// NewCarUpdateTaskFactory creates a new factory.
func NewCarUpdateTaskFactory(updater CarUpdater, logger *slog.Logger) *CarUpdateTaskFactory {
	return &CarUpdateTaskFactory{
		updater: updater,
		logger:  logger,
	}
}

// CreateTask builds a pending car update task from request data and the
// pre-update snapshot of the car.
func (f *CarUpdateTaskFactory) CreateTask(carID int64, data *domain.UpdateCarData, original map[string]any) (Task, error) {
	return NewCarUpdateTask(carID, data, original, f.updater, f.logger)
}

// Rehydrate rebuilds a car update task from its persisted payload.
func (f *CarUpdateTaskFactory) Rehydrate(id uuid.UUID, payload []byte) (*CarUpdateTask, error) {
	var p carUpdatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal car update payload: %w", err)
	}

	return &CarUpdateTask{
		id:       id,
		carID:    p.CarID,
		fields:   normalizeCarFields(p.Fields),
		original: p.Original,
		payload:  payload,
		status:   TaskStatusPending,
		updater:  f.updater,
		logger:   f.logger.With("task_type", TaskTypeCarUpdate),
	}, nil
}

// fieldNames returns the keys of a field map for logging.
func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
