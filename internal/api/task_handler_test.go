package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/mocks"
)

type taskHandlerFixture struct {
	handler       *TaskHandler
	taskStore     *mocks.MockTaskStore
	categoryStore *mocks.MockCategoryStore
	ownerID       uuid.UUID
}

func newTaskHandlerFixture(t *testing.T) *taskHandlerFixture {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	categoryStore := mocks.NewMockCategoryStore()
	return &taskHandlerFixture{
		handler:       NewTaskHandler(taskStore, categoryStore, nil),
		taskStore:     taskStore,
		categoryStore: categoryStore,
		ownerID:       uuid.New(),
	}
}

func seedTask(t *testing.T, taskStore *mocks.MockTaskStore, ownerID uuid.UUID, title string, createdAt time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "a long enough description", nil, nil, "", "")
	require.NoError(t, err)
	task.CreatedAt = createdAt
	taskStore.Tasks[task.ID] = task
	return task
}

// taskListEnvelope mirrors the list response with a typed data field.
type taskListEnvelope struct {
	Success    bool              `json:"success"`
	Data       []domain.Task     `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func decodeTaskList(t *testing.T, recorder *httptest.ResponseRecorder) taskListEnvelope {
	t.Helper()

	var envelope taskListEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	category := seedCategory(t, f.categoryStore, f.ownerID, "Work")

	body, err := json.Marshal(map[string]any{
		"title":       "Write the report",
		"description": "Quarterly numbers for the board",
		"category":    category.ID.String(),
		"deadline":    "2026-09-15",
		"priority":    "high",
	})
	require.NoError(t, err)

	req := authenticatedRequest("POST", "/api/tasks", body, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.Create(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, "Write the report", envelope.Data.Title)
	assert.Equal(t, f.ownerID, envelope.Data.UserID)
	require.NotNil(t, envelope.Data.CategoryID)
	assert.Equal(t, category.ID, *envelope.Data.CategoryID)
	require.NotNil(t, envelope.Data.Deadline)
	assert.Equal(t, "2026-09-15", envelope.Data.Deadline.Format("2006-01-02"))
	assert.Equal(t, domain.TaskPriorityHigh, envelope.Data.Priority)
	assert.Equal(t, domain.TaskStatusPending, envelope.Data.Status, "status defaults to pending")
}

func TestTaskCreateDefaults(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)

	body, err := json.Marshal(map[string]any{
		"title":       "Water the plants",
		"description": "All of them, even the cactus",
	})
	require.NoError(t, err)

	req := authenticatedRequest("POST", "/api/tasks", body, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.Create(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, domain.TaskStatusPending, envelope.Data.Status)
	assert.Equal(t, domain.TaskPriorityMedium, envelope.Data.Priority)
	assert.Nil(t, envelope.Data.CategoryID)
	assert.Nil(t, envelope.Data.Deadline)
}

func TestTaskCreateMissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing title", map[string]any{"description": "a long enough description"}},
		{"title too short", map[string]any{"title": "abc", "description": "a long enough description"}},
		{"missing description", map[string]any{"title": "Write the report"}},
		{"description too short", map[string]any{"title": "Write the report", "description": "short"}},
		{"unknown status", map[string]any{"title": "Write the report", "description": "a long enough description", "status": "done"}},
		{"unknown priority", map[string]any{"title": "Write the report", "description": "a long enough description", "priority": "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskHandlerFixture(t)

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := authenticatedRequest("POST", "/api/tasks", body, f.ownerID)
			recorder := httptest.NewRecorder()
			f.handler.Create(recorder, req)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			envelope := decodeEnvelope(t, recorder)
			assert.Equal(t, "Please provide all necessary task details", envelope.Message)
			assert.Empty(t, f.taskStore.Tasks)
		})
	}
}

func TestTaskCreateInvalidCategory(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	foreign := seedCategory(t, f.categoryStore, uuid.New(), "NotMine")

	tests := []struct {
		name     string
		category string
	}{
		{"malformed id", "not-a-uuid"},
		{"unknown category", uuid.NewString()},
		// Referencing another user's category reads the same as a missing one.
		{"foreign-owned category", foreign.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]any{
				"title":       "Write the report",
				"description": "Quarterly numbers for the board",
				"category":    tt.category,
			})
			require.NoError(t, err)

			req := authenticatedRequest("POST", "/api/tasks", body, f.ownerID)
			recorder := httptest.NewRecorder()
			f.handler.Create(recorder, req)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			envelope := decodeEnvelope(t, recorder)
			assert.Equal(t, "Invalid category", envelope.Message)
		})
	}
}

func TestTaskCreateInvalidDeadline(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)

	body, err := json.Marshal(map[string]any{
		"title":       "Write the report",
		"description": "Quarterly numbers for the board",
		"deadline":    "next tuesday",
	})
	require.NoError(t, err)

	req := authenticatedRequest("POST", "/api/tasks", body, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.Create(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Invalid deadline", envelope.Message)
}

func TestTaskGet(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	req := authenticatedRequest("GET", "/api/tasks/"+task.ID.String(), nil, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Get(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, task.ID, envelope.Data.ID)
}

func TestTaskGetForeignOwnedReadsAsMissing(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, uuid.New(), "Someone else's task", time.Now())

	req := authenticatedRequest("GET", "/api/tasks/"+task.ID.String(), nil, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Get(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Task not found", envelope.Message)
}

func TestTaskListPagination(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		seedTask(t, f.taskStore, f.ownerID,
			fmt.Sprintf("Task number %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	req := authenticatedRequest("GET", "/api/tasks?page=3&limit=10", nil, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeTaskList(t, recorder)
	assert.Len(t, envelope.Data, 5, "last page holds the remainder")
	assert.Equal(t, 25, envelope.Pagination.TotalTasks)
	assert.Equal(t, 3, envelope.Pagination.CurrentPage)
	assert.Equal(t, 3, envelope.Pagination.TotalPages)
	assert.Equal(t, 10, envelope.Pagination.PageSize)
}

func TestTaskListDefaultsAndClamps(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	seedTask(t, f.taskStore, f.ownerID, "Only one task", time.Now())

	// Garbage paging values fall back to page 1 and the default size.
	req := authenticatedRequest("GET", "/api/tasks?page=zero&limit=-5", nil, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeTaskList(t, recorder)
	assert.Equal(t, 1, envelope.Pagination.CurrentPage)
	assert.Equal(t, 10, envelope.Pagination.PageSize)

	// Oversized limits are clamped, not rejected.
	req = authenticatedRequest("GET", "/api/tasks?limit=500", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope = decodeTaskList(t, recorder)
	assert.Equal(t, 100, envelope.Pagination.PageSize)
}

func TestTaskListSortOrder(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	base := time.Now().Add(-time.Hour)
	oldest := seedTask(t, f.taskStore, f.ownerID, "Oldest task here", base)
	newest := seedTask(t, f.taskStore, f.ownerID, "Newest task here", base.Add(time.Minute))

	req := authenticatedRequest("GET", "/api/tasks", nil, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeTaskList(t, recorder)
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, newest.ID, envelope.Data[0].ID, "newest first by default")

	req = authenticatedRequest("GET", "/api/tasks?sort=asc", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope = decodeTaskList(t, recorder)
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, oldest.ID, envelope.Data[0].ID)
}

func TestTaskListFilters(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	category := seedCategory(t, f.categoryStore, f.ownerID, "Work")

	inCategory := seedTask(t, f.taskStore, f.ownerID, "Categorized task", time.Now())
	inCategory.CategoryID = &category.ID
	highPriority := seedTask(t, f.taskStore, f.ownerID, "Important task here", time.Now())
	highPriority.Priority = domain.TaskPriorityHigh
	seedTask(t, f.taskStore, f.ownerID, "Plain background task", time.Now())
	seedTask(t, f.taskStore, uuid.New(), "Foreign task here", time.Now())

	req := authenticatedRequest("GET", "/api/tasks?category="+category.ID.String(), nil, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeTaskList(t, recorder)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, inCategory.ID, envelope.Data[0].ID)

	req = authenticatedRequest("GET", "/api/tasks?priority=high", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope = decodeTaskList(t, recorder)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, highPriority.ID, envelope.Data[0].ID)

	// No filters: everything the caller owns, nothing foreign.
	req = authenticatedRequest("GET", "/api/tasks", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope = decodeTaskList(t, recorder)
	assert.Len(t, envelope.Data, 3)
	assert.Equal(t, 3, envelope.Pagination.TotalTasks)
}

func TestTaskListRejectsBadFilters(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)

	req := authenticatedRequest("GET", "/api/tasks?category=not-a-uuid", nil, f.ownerID)
	recorder := httptest.NewRecorder()
	f.handler.List(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Invalid category", envelope.Message)

	req = authenticatedRequest("GET", "/api/tasks?priority=urgent", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	req = authenticatedRequest("GET", "/api/tasks?deadline=someday", nil, f.ownerID)
	recorder = httptest.NewRecorder()
	f.handler.List(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope = decodeEnvelope(t, recorder)
	assert.Equal(t, "Invalid deadline", envelope.Message)
}

func TestTaskUpdatePartial(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	body, err := json.Marshal(map[string]any{"status": "completed"})
	require.NoError(t, err)

	req := authenticatedRequest("PUT", "/api/tasks/"+task.ID.String(), body, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Update(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, domain.TaskStatusCompleted, envelope.Data.Status)
	assert.Equal(t, "Write the report", envelope.Data.Title, "absent fields stay unchanged")
}

func TestTaskUpdateCategory(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	category := seedCategory(t, f.categoryStore, f.ownerID, "Work")
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	body, err := json.Marshal(map[string]any{"category": category.ID.String()})
	require.NoError(t, err)

	req := authenticatedRequest("PUT", "/api/tasks/"+task.ID.String(), body, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Update(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	stored := f.taskStore.Tasks[task.ID]
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, category.ID, *stored.CategoryID)
}

func TestTaskUpdateRejectsForeignCategory(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	foreign := seedCategory(t, f.categoryStore, uuid.New(), "NotMine")
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	body, err := json.Marshal(map[string]any{"category": foreign.ID.String()})
	require.NoError(t, err)

	req := authenticatedRequest("PUT", "/api/tasks/"+task.ID.String(), body, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Update(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Invalid category", envelope.Message)
	assert.Nil(t, f.taskStore.Tasks[task.ID].CategoryID)
}

func TestTaskUpdateForeignOwnedReadsAsMissing(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, uuid.New(), "Someone else's task", time.Now())

	body, err := json.Marshal(map[string]any{"status": "completed"})
	require.NoError(t, err)

	req := authenticatedRequest("PUT", "/api/tasks/"+task.ID.String(), body, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Update(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Task not found", envelope.Message)
}

func TestTaskUpdateRejectsInvalidFields(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	body, err := json.Marshal(map[string]any{"title": "abc"})
	require.NoError(t, err)

	req := authenticatedRequest("PUT", "/api/tasks/"+task.ID.String(), body, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Update(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Please provide valid task details", envelope.Message)
	assert.Equal(t, "Write the report", f.taskStore.Tasks[task.ID].Title)
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, f.ownerID, "Write the report", time.Now())

	req := authenticatedRequest("DELETE", "/api/tasks/"+task.ID.String(), nil, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Delete(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Task deleted successfully", envelope.Message)
	assert.NotContains(t, f.taskStore.Tasks, task.ID)
}

func TestTaskDeleteForeignOwnedReadsAsMissing(t *testing.T) {
	t.Parallel()

	f := newTaskHandlerFixture(t)
	task := seedTask(t, f.taskStore, uuid.New(), "Someone else's task", time.Now())

	req := authenticatedRequest("DELETE", "/api/tasks/"+task.ID.String(), nil, f.ownerID)
	req = withPathParam(req, "id", task.ID.String())
	recorder := httptest.NewRecorder()
	f.handler.Delete(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, f.taskStore.Tasks, task.ID)
}
