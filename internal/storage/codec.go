package storage

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion tags every persisted envelope so future format changes
// can be detected instead of misread.
const SchemaVersion = 1

// envelope is the persisted wrapper around every value.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Decode failure reasons.
const (
	ReasonJSON    = "json"
	ReasonVersion = "version"
	ReasonSchema  = "schema"
)

// DecodeError reports a persisted blob that could not be decoded: invalid
// JSON, an unknown envelope version, or a payload rejected by its schema.
type DecodeError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s: %v", e.Key, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func encodeEnvelope(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeEnvelope(key, raw string, schema *jsonschema.Schema, out any) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return &DecodeError{Key: key, Reason: ReasonJSON, Err: err}
	}
	if env.Version != SchemaVersion {
		return &DecodeError{Key: key, Reason: ReasonVersion, Err: fmt.Errorf("unsupported version %d", env.Version)}
	}
	if schema != nil {
		var payload any
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return &DecodeError{Key: key, Reason: ReasonJSON, Err: err}
		}
		if err := schema.Validate(payload); err != nil {
			return &DecodeError{Key: key, Reason: ReasonSchema, Err: err}
		}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DecodeError{Key: key, Reason: ReasonJSON, Err: err}
	}
	return nil
}
