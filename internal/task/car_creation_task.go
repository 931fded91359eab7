package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/autofleet/garage-api/internal/domain"
)

// CarCreator defines the store operation needed to execute a car
// creation task.
type CarCreator interface {
	// CreateFromFields inserts a car row from a flattened field map and
	// returns the new car's ID.
	CreateFromFields(ctx context.Context, fields map[string]any) (int64, error)
}

// carCreationPayload is the persisted form of a car creation task.
type carCreationPayload struct {
	UserID int64          `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

// CarCreationTask inserts a car on behalf of a user. The field map is
// captured by value when the task is built, so later changes to the
// originating request data cannot affect a queued task.
type CarCreationTask struct {
	id      uuid.UUID
	userID  int64
	fields  map[string]any
	payload []byte
	status  TaskStatus
	creator CarCreator
	logger  *slog.Logger
}

// NewCarCreationTask creates a task that will insert the given car data.
func NewCarCreationTask(data *domain.CreateCarData, creator CarCreator, logger *slog.Logger) (*CarCreationTask, error) {
	if data == nil {
		return nil, fmt.Errorf("car data cannot be nil")
	}
	if creator == nil {
		return nil, fmt.Errorf("car creator cannot be nil")
	}

	fields := data.Flatten()

	payload, err := json.Marshal(carCreationPayload{
		UserID: data.UserID,
		Fields: fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal car creation payload: %w", err)
	}

	return &CarCreationTask{
		id:      uuid.New(),
		userID:  data.UserID,
		fields:  fields,
		payload: payload,
		status:  TaskStatusPending,
		creator: creator,
		logger:  logger.With("task_type", TaskTypeCarCreation),
	}, nil
}

// ID returns the task's unique identifier.
func (t *CarCreationTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier.
func (t *CarCreationTask) Type() string { return TaskTypeCarCreation }

// Payload returns the serialized task data.
func (t *CarCreationTask) Payload() []byte { return t.payload }

// Status returns the current task status.
func (t *CarCreationTask) Status() TaskStatus { return t.status }

// Execute inserts the car. Execution is not idempotent: the payload
// carries no client-supplied key, so a redelivered creation task
// inserts a second row.
func (t *CarCreationTask) Execute(ctx context.Context) error {
	logger := t.logger.With("task_id", t.id, "user_id", t.userID)
	logger.Info("creating car")

	carID, err := t.creator.CreateFromFields(ctx, t.fields)
	if err != nil {
		return fmt.Errorf("failed to create car for user %d: %w", t.userID, err)
	}

	logger.Info("car created", "car_id", carID)
	return nil
}

// CarCreationTaskFactory builds car creation tasks with their store
// dependency bound.
type CarCreationTaskFactory struct {
	creator CarCreator
	logger  *slog.Logger
}

// NewCarCreationTaskFactory creates a new factory.
func NewCarCreationTaskFactory(creator CarCreator, logger *slog.Logger) *CarCreationTaskFactory {
	return &CarCreationTaskFactory{
		creator: creator,
		logger:  logger,
	}
}

// CreateTask builds a pending car creation task from request data.
func (f *CarCreationTaskFactory) CreateTask(data *domain.CreateCarData) (Task, error) {
	return NewCarCreationTask(data, f.creator, f.logger)
}

// Rehydrate rebuilds a car creation task from its persisted payload,
// keeping its original ID so status updates target the right row.
func (f *CarCreationTaskFactory) Rehydrate(id uuid.UUID, payload []byte) (*CarCreationTask, error) {
	var p carCreationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal car creation payload: %w", err)
	}

	return &CarCreationTask{
		id:      id,
		userID:  p.UserID,
		fields:  normalizeCarFields(p.Fields),
		payload: payload,
		status:  TaskStatusPending,
		creator: f.creator,
		logger:  f.logger.With("task_type", TaskTypeCarCreation),
	}, nil
}
