package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

// ProfileUpdate carries the optional fields of a profile update.
// Nil fields are left unchanged; a present Password triggers a re-hash.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService orchestrates user account operations that span multiple
// stores, most importantly the cascading account deletion.
type UserService struct {
	db            *sql.DB
	userStore     store.UserStore
	categoryStore store.CategoryStore
	taskStore     store.TaskStore
	verifier      auth.PasswordVerifier
	logger        *slog.Logger
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	categoryStore store.CategoryStore,
	taskStore store.TaskStore,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		db:            db,
		userStore:     userStore,
		categoryStore: categoryStore,
		taskStore:     taskStore,
		verifier:      verifier,
		logger:        log.With(slog.String("component", "user_service")),
	}
}

// GetProfile returns the user's account record.
// Returns store.ErrUserNotFound if the account no longer exists.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the user's account. Only the
// fields present in the update are touched; when a password is present the
// store re-hashes it.
// Returns the updated user with no password material populated.
func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update ProfileUpdate,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = domain.NormalizeEmail(*update.Email)
	}
	if update.Password != nil {
		user.Password = *update.Password
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info("profile updated", slog.String("user_id", userID.String()))

	user.Password = ""
	return user, nil
}

// DeleteAccount verifies the user's password and then removes the account
// together with every task and category it owns. The cascade and the user
// deletion run in a single transaction: either all dependents and the user
// row are gone afterwards, or none are.
// Returns ErrIncorrectPassword when the password is missing or wrong, and
// store.ErrUserNotFound when the account does not exist.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if password == "" {
		return ErrIncorrectPassword
	}
	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch on account deletion",
			slog.String("user_id", userID.String()))
		return ErrIncorrectPassword
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.categoryStore.WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		log.Error("account deletion failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("account deleted with all owned tasks and categories",
		slog.String("user_id", userID.String()))
	return nil
}
