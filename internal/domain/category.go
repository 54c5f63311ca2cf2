package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common category validation errors.
var (
	ErrEmptyCategoryID   = errors.New("category ID cannot be empty")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrCategoryNoOwner   = errors.New("category must belong to a user")
)

// Category is a user-defined grouping for tasks. Each category belongs to
// exactly one user, and names are unique per user.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a new Category owned by the given user.
// Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.UserID == uuid.Nil {
		return ErrCategoryNoOwner
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	return nil
}
