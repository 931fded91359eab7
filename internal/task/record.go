package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotExecutable is returned when a task loaded from the database is
// executed without being rehydrated first.
var ErrNotExecutable = errors.New("task record is not executable, rehydrate it first")

// Record is a task as it exists in the database: type, payload, and
// status, with no dependencies bound. The store returns Records; the
// runner passes them through a RehydrateFunc before execution.
type Record struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   TaskStatus
}

// NewRecord creates a Record from persisted task columns.
func NewRecord(id uuid.UUID, taskType string, payload []byte, status TaskStatus) *Record {
	return &Record{
		id:       id,
		taskType: taskType,
		payload:  payload,
		status:   status,
	}
}

// ID returns the task's unique identifier.
func (r *Record) ID() uuid.UUID { return r.id }

// Type returns the task type identifier.
func (r *Record) Type() string { return r.taskType }

// Payload returns the persisted task data.
func (r *Record) Payload() []byte { return r.payload }

// Status returns the status the task had when it was loaded.
func (r *Record) Status() TaskStatus { return r.status }

// Execute always fails; a Record carries data only.
func (r *Record) Execute(ctx context.Context) error {
	return ErrNotExecutable
}
