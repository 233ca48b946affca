package skill

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is the import-format contract an assembled document must
// satisfy before it is written. It checks the envelope shape and the
// per-node requirements; notably every dialog node must carry either an
// output block (placed node) or a jump_to next_step (pointer node).
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "intents", "entities", "metadata", "webhooks", "dialog_nodes",
    "counterexamples", "system_settings", "learning_opt_out",
    "name", "language", "description"
  ],
  "properties": {
    "intents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["intent", "examples"],
        "properties": {
          "intent": {"type": "string", "minLength": 1},
          "examples": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["text"],
              "properties": {"text": {"type": "string", "minLength": 1}}
            }
          }
        }
      }
    },
    "entities": {"type": "array"},
    "metadata": {
      "type": "object",
      "required": ["api_version"],
      "properties": {
        "api_version": {
          "type": "object",
          "required": ["major_version", "minor_version"],
          "properties": {
            "major_version": {"type": "string"},
            "minor_version": {"type": "string"}
          }
        }
      }
    },
    "webhooks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["url", "name", "headers"],
        "properties": {
          "url": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "headers": {"type": "array"}
        }
      }
    },
    "dialog_nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "title", "context", "dialog_node"],
        "properties": {
          "type": {"enum": ["standard"]},
          "title": {"type": "string", "minLength": 1},
          "dialog_node": {"type": "string", "minLength": 1},
          "parent": {"type": "string", "minLength": 1},
          "previous_sibling": {"type": "string", "minLength": 1},
          "conditions": {"type": "string", "minLength": 1},
          "context": {"type": "object"},
          "output": {
            "type": "object",
            "required": ["generic"],
            "properties": {
              "generic": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["values", "response_type", "selection_policy"],
                  "properties": {
                    "values": {
                      "type": "array",
                      "minItems": 1,
                      "items": {
                        "type": "object",
                        "required": ["text"],
                        "properties": {"text": {"type": "string"}}
                      }
                    },
                    "response_type": {"enum": ["text"]},
                    "selection_policy": {"enum": ["sequential", "random", "multiline"]}
                  }
                }
              }
            }
          },
          "next_step": {
            "type": "object",
            "required": ["behavior", "selector", "dialog_node"],
            "properties": {
              "behavior": {"enum": ["jump_to"]},
              "selector": {"enum": ["condition", "body", "user_input"]},
              "dialog_node": {"type": "string", "minLength": 1}
            }
          }
        },
        "anyOf": [
          {"required": ["output"]},
          {"required": ["next_step"]}
        ]
      }
    },
    "counterexamples": {"type": "array"},
    "system_settings": {"type": "object"},
    "learning_opt_out": {"type": "boolean"},
    "name": {"type": "string", "minLength": 1},
    "language": {"type": "string", "minLength": 2},
    "description": {"type": "string"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		const url = "https://watson-dialog-scripting.local/dialog_skill.schema.json"
		if err := c.AddResource(url, strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("load document schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile document schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks doc against the import-format schema. The document is
// round-tripped through encoding/json so validation sees exactly what an
// importer would.
func Validate(doc *Document) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("reparse document: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("document schema validation failed: %w", err)
	}
	return nil
}
