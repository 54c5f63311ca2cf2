package api

import (
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// CategoryHandler handles category CRUD. Every operation is scoped to the
// authenticated owner; another user's category is indistinguishable from a
// nonexistent one.
type CategoryHandler struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler with the given dependencies.
func NewCategoryHandler(categoryStore store.CategoryStore, log *slog.Logger) *CategoryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CategoryHandler{
		categoryStore: categoryStore,
		logger:        log.With(slog.String("component", "category_handler")),
	}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.categoryStore.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := domain.NewCategory(userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Create(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}. Renaming onto another of the
// owner's category names is a uniqueness conflict.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := h.categoryStore.GetByID(r.Context(), userID, categoryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	category.Name = req.Name
	if err := category.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Update(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}. Tasks referencing the deleted
// category survive; the schema clears their category reference.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryStore.Delete(r.Context(), userID, categoryID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Category deleted successfully")
}
