package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
// Every read and write is scoped to the owning user; a category owned by a
// different user is indistinguishable from one that does not exist.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns ErrCategoryExists if the user already has a category with the
	// same name.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by ID, scoped to the given owner.
	// Returns ErrCategoryNotFound if absent or owned by a different user.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)

	// ListByUser retrieves all categories owned by the given user.
	// Returns an empty slice when the user has no categories.
	ListByUser(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)

	// Update modifies an existing category. The update is scoped to
	// category.UserID; returns ErrCategoryNotFound if absent or foreign-owned.
	// Returns ErrCategoryExists on a per-user name collision.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category, scoped to the given owner.
	// Returns ErrCategoryNotFound if absent or foreign-owned.
	// Tasks referencing the category keep their (now dangling) reference.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByUser removes all categories owned by the given user.
	// Used by cascading account deletion.
	DeleteByUser(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a new CategoryStore instance bound to the transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
