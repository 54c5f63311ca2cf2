package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter, page store.TaskPage) ([]*domain.Task, int, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn       func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByUserFn func(ctx context.Context, ownerID uuid.UUID) error

	// Tasks backs the default implementations, keyed by task ID.
	Tasks map[uuid.UUID]*domain.Task

	// DeleteByUserCalls records the owner IDs passed to DeleteByUser, for
	// asserting cascade order in account deletion tests.
	DeleteByUserCalls []uuid.UUID
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	// Copy so callers cannot mutate stored state without a write call.
	copied := *task
	return &copied, nil
}

// List implements the TaskStore interface. The default implementation
// applies the filter, sorts by creation time and slices out the requested
// page, mirroring the real store's semantics.
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	page store.TaskPage,
) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, filter, page)
	}

	matched := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID != ownerID {
			continue
		}
		if filter.CategoryID != nil &&
			(task.CategoryID == nil || *task.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.Deadline != nil &&
			(task.Deadline == nil || !task.Deadline.Equal(*filter.Deadline)) {
			continue
		}
		matched = append(matched, task)
	}

	sort.Slice(matched, func(i, j int) bool {
		if page.SortAscending {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	offset := (page.Page - 1) * page.PageSize
	if offset >= total {
		return []*domain.Task{}, total, nil
	}
	end := offset + page.PageSize
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}

	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}

// DeleteByUser implements the TaskStore interface.
func (m *MockTaskStore) DeleteByUser(ctx context.Context, ownerID uuid.UUID) error {
	m.DeleteByUserCalls = append(m.DeleteByUserCalls, ownerID)

	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, ownerID)
	}

	for id, task := range m.Tasks {
		if task.UserID == ownerID {
			delete(m.Tasks, id)
		}
	}

	return nil
}

// WithTx implements the TaskStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
