package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/store"
)

// CategoryStore implements the store.CategoryStore interface using a
// PostgreSQL database as the storage backend. All statements filter on
// user_id so one user's categories are invisible to another.
type CategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface.
// If logger is nil, a default logger will be used.
func NewCategoryStore(db store.DBTX, logger *slog.Logger) *CategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure CategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*CategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *CategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &CategoryStore{db: tx, logger: s.logger}
}

// Create implements store.CategoryStore.Create
// Returns store.ErrCategoryExists when the user already has a category with
// the same name.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		INSERT INTO categories (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.UserID,
		category.Name,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate category name",
				slog.String("user_id", category.UserID.String()),
				slog.String("name", category.Name))
			return store.ErrCategoryExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("owner does not exist for category creation",
				slog.String("user_id", category.UserID.String()))
			return store.ErrUserNotFound
		}

		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", category.UserID.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// Returns store.ErrCategoryNotFound if absent or owned by a different user.
func (s *CategoryStore) GetByID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found",
				slog.String("category_id", id.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return &category, nil
}

// ListByUser implements store.CategoryStore.ListByUser
// Returns an empty slice when the user has no categories.
func (s *CategoryStore) ListByUser(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan category row",
				slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if categories == nil {
		categories = []*domain.Category{}
	}

	return categories, nil
}

// Update implements store.CategoryStore.Update
// The statement is scoped to the owning user; a foreign-owned category
// produces store.ErrCategoryNotFound, same as an absent one.
func (s *CategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	category.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.UpdatedAt,
		category.ID,
		category.UserID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate category name during update",
				slog.String("user_id", category.UserID.String()),
				slog.String("name", category.Name))
			return store.ErrCategoryExists
		}

		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("category not found for update",
			slog.String("category_id", category.ID.String()),
			slog.String("user_id", category.UserID.String()))
		return store.ErrCategoryNotFound
	}

	log.Info("category updated successfully",
		slog.String("category_id", category.ID.String()))
	return nil
}

// Delete implements store.CategoryStore.Delete
// Tasks referencing the category survive; the schema's ON DELETE SET NULL
// clears their reference.
func (s *CategoryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("category not found for delete",
			slog.String("category_id", id.String()),
			slog.String("user_id", ownerID.String()))
		return store.ErrCategoryNotFound
	}

	log.Info("category deleted successfully",
		slog.String("category_id", id.String()))
	return nil
}

// DeleteByUser implements store.CategoryStore.DeleteByUser
func (s *CategoryStore) DeleteByUser(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM categories WHERE user_id = $1`

	result, err := s.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to delete categories for user",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return err
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Info("deleted categories for user",
			slog.String("user_id", ownerID.String()),
			slog.Int64("count", n))
	}

	return nil
}
