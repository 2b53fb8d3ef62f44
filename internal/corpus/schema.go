package corpus

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["surahs"],
  "properties": {
    "name": {"type": "string"},
    "translation_language": {"type": "string"},
    "surahs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["number", "name", "verses"],
        "properties": {
          "number": {"type": "integer", "minimum": 1},
          "name": {"type": "string", "minLength": 1},
          "verses": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["number", "text_original", "text_translated"],
              "properties": {
                "number": {"type": "integer", "minimum": 1},
                "text_original": {"type": "string", "minLength": 1},
                "text_translated": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// validateDocument checks a decoded document (map/slice form) against the
// corpus schema.
func validateDocument(raw any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
}
