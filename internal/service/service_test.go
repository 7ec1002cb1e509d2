package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taskmaster/internal/repository"
	"taskmaster/internal/storage"
)

// testEnv wires real repositories over a throwaway SQLite store.
type testEnv struct {
	auth      *AuthService
	tasks     *TaskService
	directory *repository.DirectoryRepository
	sessions  *repository.SessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := storage.NewDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := storage.NewStore(db)
	directory := repository.NewDirectoryRepository(store)
	sessions := repository.NewSessionRepository(store, filepath.Join(dir, "session"))

	return &testEnv{
		auth:      NewAuthService(directory, sessions),
		tasks:     NewTaskService(directory, sessions),
		directory: directory,
		sessions:  sessions,
	}
}

// signup creates and logs in a throwaway account.
func (e *testEnv) signup(t *testing.T, name, email string) {
	t.Helper()
	if _, err := e.auth.Signup(context.Background(), name, email, "secret123", "secret123"); err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
}

// setClock pins both services to a fixed time.
func (e *testEnv) setClock(at time.Time) {
	e.auth.now = func() time.Time { return at }
	e.tasks.now = func() time.Time { return at }
}
