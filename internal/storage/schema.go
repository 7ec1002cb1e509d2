package storage

import (
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Schemas for the two persisted documents. Validation runs on every read
// so a corrupt blob surfaces as a typed DecodeError, not a panic later.
var (
	DirectorySchema = mustCompile("users.schema.json", directorySchemaDoc)
	SessionSchema   = mustCompile("current_user.schema.json", sessionSchemaDoc)
)

const taskSchemaDoc = `{
  "type": "object",
  "required": ["id", "title", "category", "important", "completed", "createdAt", "notified"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "category": {"type": "string"},
    "important": {"type": "boolean"},
    "completed": {"type": "boolean"},
    "createdAt": {"type": "string"},
    "deadline": {"type": "string"},
    "notified": {"type": "boolean"}
  }
}`

const directorySchemaDoc = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "email", "password", "createdAt", "tasks"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "email": {"type": "string"},
      "password": {"type": "string"},
      "phone": {"type": "string"},
      "dob": {"type": "string"},
      "createdAt": {"type": "string"},
      "tasks": {"type": "array", "items": ` + taskSchemaDoc + `}
    }
  }
}`

const sessionSchemaDoc = `{
  "type": "object",
  "required": ["id", "name", "email", "createdAt"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "dob": {"type": "string"},
    "createdAt": {"type": "string"}
  }
}`

func mustCompile(name, doc string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(doc)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}
