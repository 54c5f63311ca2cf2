package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// TaskFilter narrows a task listing to rows matching every present field.
// Nil fields are ignored.
type TaskFilter struct {
	CategoryID *uuid.UUID
	Priority   *domain.TaskPriority
	Deadline   *time.Time
}

// TaskPage describes sorting and offset/limit pagination for task listings.
type TaskPage struct {
	SortAscending bool // default is newest first
	Page          int  // 1-based
	PageSize      int
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to the owning user; a task owned by a
// different user is indistinguishable from one that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if absent or owned by a different user.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List retrieves the owner's tasks matching the filter, ordered by
	// creation time, paginated. Also returns the total number of matching
	// tasks so callers can compute page counts.
	List(
		ctx context.Context,
		ownerID uuid.UUID,
		filter TaskFilter,
		page TaskPage,
	) ([]*domain.Task, int, error)

	// Update modifies an existing task. The update is scoped to task.UserID;
	// returns ErrTaskNotFound if absent or foreign-owned.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task, scoped to the given owner.
	// Returns ErrTaskNotFound if absent or foreign-owned.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByUser removes all tasks owned by the given user.
	// Used by cascading account deletion.
	DeleteByUser(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore instance bound to the transaction.
	WithTx(tx *sql.Tx) TaskStore
}
