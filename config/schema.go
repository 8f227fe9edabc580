package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// poolConfigSchemaURL is an identifier, not a fetched resource — the
// schema is compiled from the embedded poolConfigSchemaJSON below via
// AddResource, exactly as witnessd's schemavalidation package compiles
// its own schema documents from local bytes rather than a live URL.
const poolConfigSchemaURL = "openentropy://schema/pool-config-v1.schema.json"

// poolConfigSchemaJSON constrains the shape NewFromConfig will accept,
// independent of Go's zero-value leniency (e.g. catching a negative
// sample count or a malformed conditioning-mode string supplied via a
// hand-edited TOML file before it ever reaches Validate).
const poolConfigSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "enabled_sources": {
      "type": "array",
      "items": { "type": "string" }
    },
    "source_weights": {
      "type": "object",
      "additionalProperties": { "type": "number", "minimum": 0 }
    },
    "default_sample_count": {
      "type": "integer",
      "minimum": 0
    },
    "metrics_conditioning_mode": {
      "type": "string",
      "enum": ["", "raw", "vonneumann", "sha256"]
    }
  },
  "additionalProperties": false
}`

// ValidateSchema checks cfg's shape against the pool-config JSON Schema.
// This is a structural check, distinct from Validate's semantic checks —
// both run, in that order, inside pool.NewFromConfig.
func (c *PoolConfig) ValidateSchema() error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(poolConfigSchemaURL, bytes.NewReader([]byte(poolConfigSchemaJSON))); err != nil {
		return fmt.Errorf("config: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(poolConfigSchemaURL)
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	encoded, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal for validation: %w", err)
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("config: unmarshal for validation: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config: schema validation failed: %w", err)
	}
	return nil
}
