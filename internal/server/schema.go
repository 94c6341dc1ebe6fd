package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request body schemas. Compiled once at startup; a malformed schema is a
// programming error, hence the panic in mustCompile.

const querySchemaJSON = `{
	"type": "object",
	"properties": {
		"question": {"type": "string", "minLength": 1, "maxLength": 10000}
	},
	"required": ["question"],
	"additionalProperties": false
}`

const chatSchemaJSON = `{
	"type": "object",
	"properties": {
		"message": {"type": "string", "minLength": 1, "maxLength": 10000},
		"session_id": {"type": "string", "maxLength": 128}
	},
	"required": ["message"],
	"additionalProperties": false
}`

var (
	querySchema = mustCompile(querySchemaJSON)
	chatSchema  = mustCompile(chatSchemaJSON)
)

func mustCompile(schemaJSON string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return schema
}

// validateBody checks a raw JSON body against a schema, returning a
// human-readable error listing every violation.
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, resErr := range result.Errors() {
			msgs = append(msgs, resErr.String())
		}
		return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
	}
	return nil
}
