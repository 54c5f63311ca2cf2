package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// Task listing pagination bounds. Out-of-range client values are clamped,
// never rejected.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TaskHandler handles task CRUD and listing. Every operation is scoped to
// the authenticated owner; a foreign-owned task reads as not found.
type TaskHandler struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, categoryStore store.CategoryStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		logger:        log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/tasks. A category reference, when present, must
// name one of the caller's own categories.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Please provide all necessary task details")
		return
	}

	categoryID, err := h.resolveCategory(r, userID, req.Category)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline")
		return
	}

	task, err := domain.NewTask(
		userID,
		req.Title,
		req.Description,
		categoryID,
		deadline,
		domain.TaskStatus(req.Status),
		domain.TaskPriority(req.Priority),
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, task)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// List handles GET /api/tasks with optional equality filters (category,
// priority, deadline), creation-time sorting (sort=asc, default newest
// first) and offset/limit pagination (page, limit).
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()

	var filter store.TaskFilter

	if raw := query.Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category")
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := query.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !priority.IsValid() {
			HandleAPIError(w, r, domain.ErrInvalidPriority, "")
			return
		}
		filter.Priority = &priority
	}

	if raw := query.Get("deadline"); raw != "" {
		deadline, err := parseDeadline(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline")
			return
		}
		filter.Deadline = deadline
	}

	page := store.TaskPage{
		SortAscending: query.Get("sort") == "asc",
		Page:          positiveIntOr(query.Get("page"), 1),
		PageSize:      positiveIntOr(query.Get("limit"), defaultPageSize),
	}
	if page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}

	tasks, total, err := h.taskStore.List(r.Context(), userID, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	totalPages := (total + page.PageSize - 1) / page.PageSize

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Data:    tasks,
		Pagination: &shared.Pagination{
			TotalTasks:  total,
			CurrentPage: page.Page,
			TotalPages:  totalPages,
			PageSize:    page.PageSize,
		},
	})
}

// Update handles PUT /api/tasks/{id}. Only the fields present in the request
// body are applied; a present category reference must belong to the caller.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Please provide valid task details")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Category != nil && *req.Category != "" {
		categoryID, err := h.resolveCategory(r, userID, *req.Category)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		task.CategoryID = categoryID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline")
			return
		}
		task.Deadline = deadline
	}

	if err := task.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Task deleted successfully")
}

// resolveCategory parses a category reference from a request body and
// verifies it names one of the caller's categories. An empty reference
// resolves to nil. A malformed ID, a missing category, and another user's
// category are all reported identically as store.ErrInvalidCategory.
func (h *TaskHandler) resolveCategory(r *http.Request, userID uuid.UUID, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	categoryID, err := uuid.Parse(raw)
	if err != nil {
		return nil, store.ErrInvalidCategory
	}

	if _, err := h.categoryStore.GetByID(r.Context(), userID, categoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, store.ErrInvalidCategory
		}
		return nil, err
	}

	return &categoryID, nil
}

// parseDeadline accepts a bare date (2006-01-02) or a full RFC 3339
// timestamp. An empty value resolves to nil.
func parseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// positiveIntOr parses raw as a positive integer, falling back to def for
// absent, malformed, and non-positive values.
func positiveIntOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
