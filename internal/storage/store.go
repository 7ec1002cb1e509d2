package storage

import (
	"context"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"
)

// ErrNotFound reports a key with no persisted value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a key/value store over the records table. Each value is a
// whole JSON blob: callers read-modify-write entire documents, and the
// last writer wins.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the raw envelope stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	switch {
	case err == nil:
		return rec.Value, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("get %q: %w", key, err)
	}
}

// Put upserts the raw envelope stored under key.
func (s *Store) Put(ctx context.Context, key, value string) error {
	db := s.db.WithContext(ctx)
	var rec Record
	err := db.Where("key = ?", key).First(&rec).Error
	switch {
	case err == nil:
		if err := db.Model(&rec).Update("value", value).Error; err != nil {
			return fmt.Errorf("update %q: %w", key, err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = Record{Key: key, Value: value}
		if err := db.Create(&rec).Error; err != nil {
			return fmt.Errorf("create %q: %w", key, err)
		}
		return nil
	default:
		return fmt.Errorf("find %q: %w", key, err)
	}
}

// Delete removes the value stored under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// GetJSON reads the envelope under key, validates its payload against
// schema and decodes it into out. A missing key returns ErrNotFound; a
// malformed value returns a *DecodeError.
func (s *Store) GetJSON(ctx context.Context, key string, schema *jsonschema.Schema, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return decodeEnvelope(key, raw, schema, out)
}

// PutJSON wraps v in a versioned envelope and upserts it under key.
func (s *Store) PutJSON(ctx context.Context, key string, v any) error {
	raw, err := encodeEnvelope(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
