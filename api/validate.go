package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// Request payload schemas, compiled once at package init. Field rules that
// belong to the API contract (email shape, password length, closed enums)
// live here; anything structural beyond that is the decoder's job.

const signUpSchemaJSON = `{
	"type": "object",
	"required": ["email", "password", "role"],
	"properties": {
		"email": {"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
		"password": {"type": "string", "minLength": 8},
		"role": {"type": "string", "enum": ["admin", "student"]}
	}
}`

const internshipCreateSchemaJSON = `{
	"type": "object",
	"required": ["title", "description", "company", "application_deadline"],
	"properties": {
		"title": {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string", "minLength": 1},
		"company": {"type": "string", "minLength": 1, "maxLength": 200},
		"location": {"type": ["string", "null"], "maxLength": 200},
		"application_deadline": {"type": "string"}
	}
}`

const applicationStatusSchemaJSON = `{
	"type": "object",
	"required": ["status"],
	"properties": {
		"status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
	}
}`

var (
	signUpSchema            = mustCompileSchema(signUpSchemaJSON)
	internshipCreateSchema  = mustCompileSchema(internshipCreateSchemaJSON)
	applicationStatusSchema = mustCompileSchema(applicationStatusSchemaJSON)
)

func mustCompileSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return rs
}

// validatePayload checks raw JSON against a compiled schema and returns the
// first violation as a caller-facing message.
func validatePayload(ctx context.Context, schema *jsonschema.Schema, payload []byte) error {
	verrs, err := schema.ValidateBytes(ctx, payload)
	if err != nil {
		return fmt.Errorf("invalid JSON payload")
	}
	if len(verrs) > 0 {
		return fmt.Errorf("%s: %s", verrs[0].PropertyPath, verrs[0].Message)
	}
	return nil
}
