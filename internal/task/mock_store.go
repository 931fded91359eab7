package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// mockTaskStore is an in-memory TaskStore used by the package tests.
type mockTaskStore struct {
	mu       sync.Mutex
	saved    []Task
	statuses map[uuid.UUID]TaskStatus
	messages map[uuid.UUID]string

	pending    []Task
	processing []Task

	saveErr   error
	updateErr error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		statuses: make(map[uuid.UUID]TaskStatus),
		messages: make(map[uuid.UUID]string),
	}
}

func (s *mockTaskStore) SaveTask(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, task)
	s.statuses[task.ID()] = task.Status()
	return nil
}

func (s *mockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.statuses[taskID] = status
	s.messages[taskID] = errorMsg
	return nil
}

func (s *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.pending...), nil
}

func (s *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.processing...), nil
}

func (s *mockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

func (s *mockTaskStore) statusOf(taskID uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[taskID]
}

func (s *mockTaskStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}
