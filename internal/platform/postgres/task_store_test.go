package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

func newTaskStoreWithMock(t *testing.T) (*TaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTaskStore(db, nil), mock
}

func taskColumns() []string {
	return []string{
		"id", "user_id", "category_id", "title", "description",
		"deadline", "status", "priority", "created_at", "updated_at",
	}
}

func newTestTask(t *testing.T, ownerID uuid.UUID) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(
		ownerID,
		"Write report",
		"Quarterly report for the team",
		nil, nil, "", "",
	)
	require.NoError(t, err)
	return task
}

func TestTaskStoreCreate(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)
	task := newTestTask(t, uuid.New())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(task.ID, task.UserID, nil, task.Title, task.Description,
			nil, "pending", "medium", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, taskStore.Create(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreCreateOwnerMissing(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)
	task := newTestTask(t, uuid.New())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolationCode})

	err := taskStore.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreGetByIDNotFound(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)

	ownerID := uuid.New()
	taskID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1 AND user_id = $2")).
		WithArgs(taskID, ownerID).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	_, err := taskStore.GetByID(context.Background(), ownerID, taskID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreListNoFilters(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)
	ownerID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE user_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows(taskColumns()).
		AddRow(uuid.New(), ownerID, nil, "Write report", "Quarterly report for the team",
			nil, "pending", "medium", now, now)

	mock.ExpectQuery("FROM tasks WHERE user_id = \\$1 ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs(ownerID, 10, 10).
		WillReturnRows(rows)

	tasks, total, err := taskStore.List(context.Background(), ownerID,
		store.TaskFilter{}, store.TaskPage{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, tasks, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreListWithFilters(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)

	ownerID := uuid.New()
	categoryID := uuid.New()
	priority := domain.TaskPriorityHigh
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	filter := store.TaskFilter{
		CategoryID: &categoryID,
		Priority:   &priority,
		Deadline:   &deadline,
	}

	// Count and list must share the same predicate so the pagination math
	// agrees with the returned rows.
	predicate := regexp.QuoteMeta(
		"WHERE user_id = $1 AND category_id = $2 AND priority = $3 AND deadline = $4")

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM tasks " + predicate).
		WithArgs(ownerID, categoryID, "high", deadline).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery("FROM tasks " + predicate + " ORDER BY created_at ASC").
		WithArgs(ownerID, categoryID, "high", deadline, 10, 0).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	tasks, total, err := taskStore.List(context.Background(), ownerID, filter,
		store.TaskPage{SortAscending: true, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, tasks, "empty result must be a slice, not nil")
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreListClampsPagination(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Zero page and oversized page size fall back to page 1, max size.
	mock.ExpectQuery("FROM tasks WHERE user_id").
		WithArgs(ownerID, maxTaskPageSize, 0).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	_, _, err := taskStore.List(context.Background(), ownerID,
		store.TaskFilter{}, store.TaskPage{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdateNotFound(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)
	task := newTestTask(t, uuid.New())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := taskStore.Update(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreDeleteScopedToOwner(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)

	ownerID := uuid.New()
	taskID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND user_id = $2")).
		WithArgs(taskID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := taskStore.Delete(context.Background(), ownerID, taskID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreScanRow(t *testing.T) {
	t.Parallel()

	taskStore, mock := newTaskStoreWithMock(t)

	ownerID := uuid.New()
	taskID := uuid.New()
	categoryID := uuid.New()
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(taskColumns()).
		AddRow(taskID, ownerID, categoryID, "Write report", "Quarterly report for the team",
			deadline, "in-progress", "high", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = $1 AND user_id = $2")).
		WithArgs(taskID, ownerID).
		WillReturnRows(rows)

	task, err := taskStore.GetByID(context.Background(), ownerID, taskID)
	require.NoError(t, err)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, categoryID, *task.CategoryID)
	require.NotNil(t, task.Deadline)
	assert.True(t, task.Deadline.Equal(deadline))
	assert.Equal(t, domain.TaskStatusInProgress, task.Status)
	assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}
