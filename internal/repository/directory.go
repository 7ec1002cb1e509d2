package repository

import (
	"context"
	"errors"
	"fmt"

	"taskmaster/internal/model"
	"taskmaster/internal/storage"
)

// UsersKey is the store key holding the full account directory.
const UsersKey = "users"

// DirectoryRepository reads and writes the persisted user directory as one
// document. Every mutation is a read-modify-write of the whole blob; two
// concurrent writers clobber each other and the last save wins.
type DirectoryRepository struct {
	store *storage.Store
}

func NewDirectoryRepository(store *storage.Store) *DirectoryRepository {
	return &DirectoryRepository{store: store}
}

// Load returns all accounts. A missing directory reads as empty.
func (r *DirectoryRepository) Load(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.store.GetJSON(ctx, UsersKey, storage.DirectorySchema, &users)
	switch {
	case err == nil:
		return users, nil
	case errors.Is(err, storage.ErrNotFound):
		return []model.User{}, nil
	default:
		return nil, fmt.Errorf("load directory: %w", err)
	}
}

// Save rewrites the whole directory.
func (r *DirectoryRepository) Save(ctx context.Context, users []model.User) error {
	if err := r.store.PutJSON(ctx, UsersKey, users); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	return nil
}

// FindByID returns the account with the given id, or nil when absent.
func (r *DirectoryRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

// FindByEmail returns the account with the given email, or nil when absent.
// Emails are compared exactly, as entered at signup.
func (r *DirectoryRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Append adds a new account and rewrites the directory.
func (r *DirectoryRepository) Append(ctx context.Context, user model.User) error {
	users, err := r.Load(ctx)
	if err != nil {
		return err
	}
	users = append(users, user)
	return r.Save(ctx, users)
}

// UpdateUser replaces the account with the same id. A missing account is
// a silent no-op, matching the original behavior.
func (r *DirectoryRepository) UpdateUser(ctx context.Context, user model.User) error {
	users, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			return r.Save(ctx, users)
		}
	}
	return nil
}

// SaveTasks replaces the task list embedded in the account with the given
// id and rewrites the directory. A missing account is a silent no-op.
func (r *DirectoryRepository) SaveTasks(ctx context.Context, userID string, tasks []model.Task) error {
	users, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == userID {
			users[i].Tasks = tasks
			return r.Save(ctx, users)
		}
	}
	return nil
}
