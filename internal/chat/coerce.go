package chat

import (
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

// coerceArgs nudges model-supplied arguments toward the types the tool
// schema declares. Models frequently send numbers and booleans as
// strings; servers with strict schemas then reject the call. Values that
// cannot be converted pass through unchanged with a warning, leaving the
// final verdict to the server.
func coerceArgs(args map[string]any, schema *jsonschema.Schema, logger log.Logger) map[string]any {
	if schema == nil || len(schema.Properties) == 0 || len(args) == 0 {
		return args
	}

	out := make(map[string]any, len(args))
	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			out[name] = value
			continue
		}
		coerced, ok := coerceValue(value, prop.Type)
		if !ok {
			logger.Warn("argument does not match tool schema, passing through",
				"argument", name, "want", prop.Type, "got", value)
			out[name] = value
			continue
		}
		out[name] = coerced
	}
	return out
}

// coerceValue converts value toward the schema type. The bool return is
// false only when a conversion was needed and failed.
func coerceValue(value any, schemaType string) (any, bool) {
	switch schemaType {
	case "integer":
		switch v := value.(type) {
		case float64:
			if v == float64(int64(v)) {
				return int64(v), true
			}
			return value, false
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return value, false
			}
			return n, true
		case int, int64:
			return value, true
		}
		return value, false

	case "number":
		switch v := value.(type) {
		case float64, int, int64:
			return value, true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return value, false
			}
			return f, true
		}
		return value, false

	case "boolean":
		switch v := value.(type) {
		case bool:
			return value, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(v)))
			if err != nil {
				return value, false
			}
			return b, true
		}
		return value, false

	case "string":
		if _, ok := value.(string); ok {
			return value, true
		}
		return value, false

	default:
		// Arrays, objects, and untyped properties pass through as-is.
		return value, true
	}
}
