package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"taskmaster/internal/model"
	"taskmaster/internal/storage"
)

// SessionKey is the store key holding the password-stripped session record.
const SessionKey = "current_user"

// ErrNoSession reports that nobody is logged in.
var ErrNoSession = errors.New("no active session")

// SessionRepository manages the two login artifacts: the session record in
// the store and the authenticated marker file. Both must be present for a
// session to count; partial state reads as logged out.
//
// The marker file stands in for session-scoped storage: logout removes it,
// and it lives outside the database so wiping it never touches accounts.
type SessionRepository struct {
	store      *storage.Store
	markerPath string
}

func NewSessionRepository(store *storage.Store, markerPath string) *SessionRepository {
	return &SessionRepository{store: store, markerPath: markerPath}
}

// Establish records user as logged in: session record first, marker second.
func (r *SessionRepository) Establish(ctx context.Context, user model.User) error {
	if err := r.store.PutJSON(ctx, SessionKey, user.Session()); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	if dir := filepath.Dir(r.markerPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(r.markerPath, []byte("true\n"), 0o600); err != nil {
		return fmt.Errorf("write session marker: %w", err)
	}
	return nil
}

// Current returns the session record when both artifacts are present.
func (r *SessionRepository) Current(ctx context.Context) (*model.Session, error) {
	if _, err := os.Stat(r.markerPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("stat session marker: %w", err)
	}

	var session model.Session
	err := r.store.GetJSON(ctx, SessionKey, storage.SessionSchema, &session)
	switch {
	case err == nil:
		return &session, nil
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrNoSession
	default:
		return nil, fmt.Errorf("load session record: %w", err)
	}
}

// Refresh rewrites the session record in place, keeping the marker.
func (r *SessionRepository) Refresh(ctx context.Context, user model.User) error {
	if err := r.store.PutJSON(ctx, SessionKey, user.Session()); err != nil {
		return fmt.Errorf("refresh session record: %w", err)
	}
	return nil
}

// Clear removes both artifacts. Clearing an absent session is fine.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, SessionKey); err != nil {
		return err
	}
	if err := os.Remove(r.markerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session marker: %w", err)
	}
	return nil
}
