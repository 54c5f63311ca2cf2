package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors.
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrTaskNoOwner       = errors.New("task must belong to a user")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTitleLength       = errors.New("title must be between 5 and 150 characters")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrDescriptionLength = errors.New("description must be between 10 and 1000 characters")
)

// TaskStatus tracks the progress of a task. Transitions between statuses
// are unrestricted; any authorized update may set any value.
type TaskStatus string

// Known task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// TaskPriority ranks the urgency of a task.
type TaskPriority string

// Known task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known priorities.
func (p TaskPriority) IsValid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// Task is a unit of work owned by exactly one user. It may reference one of
// the owner's categories; ownership of the reference is checked at write
// time, and deleting the category clears the reference on its tasks.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. Zero-valued status
// and priority fall back to the defaults (pending, medium).
// Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description string,
	categoryID *uuid.UUID,
	deadline *time.Time,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Deadline:    deadline,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrTaskNoOwner
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) < 5 || len(t.Title) > 150 {
		return ErrTitleLength
	}

	if t.Description == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) < 10 || len(t.Description) > 1000 {
		return ErrDescriptionLength
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	return nil
}
