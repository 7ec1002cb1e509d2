package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func TestStoreGetPutDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: got %v, want ErrNotFound", err)
	}

	if err := store.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || got != "v1" {
		t.Fatalf("get: got %q, %v", got, err)
	}

	// Put on an existing key overwrites.
	if err := store.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}
	got, err = store.Get(ctx, "k")
	if err != nil || got != "v2" {
		t.Fatalf("get after overwrite: got %q, %v", got, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: got %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

type payload struct {
	Name string `json:"name"`
}

func TestPutJSONGetJSONRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.PutJSON(ctx, "doc", payload{Name: "alpha"}); err != nil {
		t.Fatalf("put json: %v", err)
	}

	// The stored value carries the version tag.
	raw, err := store.Get(ctx, "doc")
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	if !strings.Contains(raw, `"version":1`) {
		t.Errorf("expected versioned envelope, got %q", raw)
	}

	var out payload
	if err := store.GetJSON(ctx, "doc", nil, &out); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if out.Name != "alpha" {
		t.Errorf("name: got %q, want alpha", out.Name)
	}
}

func TestGetJSONDecodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantReason string
	}{
		{"invalid json", `{not json`, ReasonJSON},
		{"unknown version", `{"version":99,"data":{}}`, ReasonVersion},
		{"schema violation", `{"version":1,"data":{"name":123}}`, ReasonSchema},
	}

	schema := mustCompile("payload.schema.json", `{
	  "type": "object",
	  "properties": {"name": {"type": "string"}}
	}`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()
			if err := store.Put(ctx, "doc", tt.raw); err != nil {
				t.Fatalf("put: %v", err)
			}

			var out payload
			err := store.GetJSON(ctx, "doc", schema, &out)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if de.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", de.Reason, tt.wantReason)
			}
			if de.Key != "doc" {
				t.Errorf("key: got %q, want doc", de.Key)
			}
		})
	}
}

func TestDirectorySchemaAcceptsPersistedShape(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	raw := `{"version":1,"data":[{
	  "id":"1748770800000","name":"John","email":"john@example.com",
	  "password":"secret123","createdAt":"2025-06-01T09:00:00Z",
	  "tasks":[{"id":"1748770801000","title":"Buy milk","category":"shopping",
	    "important":true,"completed":false,
	    "createdAt":"2025-06-01T09:00:01Z","deadline":"2025-06-01T18:00","notified":false}]
	}]}`
	if err := store.Put(ctx, "users", raw); err != nil {
		t.Fatalf("put: %v", err)
	}

	var users []map[string]any
	if err := store.GetJSON(ctx, "users", DirectorySchema, &users); err != nil {
		t.Fatalf("valid directory rejected: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
}

func TestDirectorySchemaRejectsBadTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Task id must be a non-empty string.
	raw := `{"version":1,"data":[{
	  "id":"1","name":"John","email":"john@example.com",
	  "password":"secret123","createdAt":"2025-06-01T09:00:00Z",
	  "tasks":[{"id":"","title":"x","category":"other",
	    "important":false,"completed":false,"createdAt":"now","notified":false}]
	}]}`
	if err := store.Put(ctx, "users", raw); err != nil {
		t.Fatalf("put: %v", err)
	}

	var users []map[string]any
	err := store.GetJSON(ctx, "users", DirectorySchema, &users)
	var de *DecodeError
	if !errors.As(err, &de) || de.Reason != ReasonSchema {
		t.Fatalf("expected schema DecodeError, got %v", err)
	}
}
