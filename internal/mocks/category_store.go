package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing.
type MockCategoryStore struct {
	CreateFn       func(ctx context.Context, category *domain.Category) error
	GetByIDFn      func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)
	ListByUserFn   func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error)
	UpdateFn       func(ctx context.Context, category *domain.Category) error
	DeleteFn       func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByUserFn func(ctx context.Context, ownerID uuid.UUID) error

	// Categories backs the default implementations, keyed by category ID.
	Categories map[uuid.UUID]*domain.Category

	// DeleteByUserCalls records the owner IDs passed to DeleteByUser, for
	// asserting cascade order in account deletion tests.
	DeleteByUserCalls []uuid.UUID
}

// NewMockCategoryStore creates a new mock store with initialized defaults.
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create implements the CategoryStore interface.
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}

	for _, existing := range m.Categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return store.ErrCategoryExists
		}
	}

	m.Categories[category.ID] = category
	return nil
}

// GetByID implements the CategoryStore interface.
func (m *MockCategoryStore) GetByID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	category, exists := m.Categories[id]
	if !exists || category.UserID != ownerID {
		return nil, store.ErrCategoryNotFound
	}

	// Copy so callers cannot mutate stored state without a write call.
	copied := *category
	return &copied, nil
}

// ListByUser implements the CategoryStore interface.
func (m *MockCategoryStore) ListByUser(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Category, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, ownerID)
	}

	categories := make([]*domain.Category, 0)
	for _, category := range m.Categories {
		if category.UserID == ownerID {
			categories = append(categories, category)
		}
	}

	return categories, nil
}

// Update implements the CategoryStore interface.
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}

	existing, exists := m.Categories[category.ID]
	if !exists || existing.UserID != category.UserID {
		return store.ErrCategoryNotFound
	}

	for _, other := range m.Categories {
		if other.ID != category.ID && other.UserID == category.UserID && other.Name == category.Name {
			return store.ErrCategoryExists
		}
	}

	m.Categories[category.ID] = category
	return nil
}

// Delete implements the CategoryStore interface.
func (m *MockCategoryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	category, exists := m.Categories[id]
	if !exists || category.UserID != ownerID {
		return store.ErrCategoryNotFound
	}

	delete(m.Categories, id)
	return nil
}

// DeleteByUser implements the CategoryStore interface.
func (m *MockCategoryStore) DeleteByUser(ctx context.Context, ownerID uuid.UUID) error {
	m.DeleteByUserCalls = append(m.DeleteByUserCalls, ownerID)

	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, ownerID)
	}

	for id, category := range m.Categories {
		if category.UserID == ownerID {
			delete(m.Categories, id)
		}
	}

	return nil
}

// WithTx implements the CategoryStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
