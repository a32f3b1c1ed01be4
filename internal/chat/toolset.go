package chat

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

// declarations converts discovered MCP tools into Gemini function
// declarations so the model can request calls by name.
func declarations(tools []*mcp.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGenaiSchema(inputSchema(tool)),
		})
	}
	return decls
}

// inputSchema extracts the parsed schema the client session decoded at
// discovery time. Tools whose schema did not parse (or that were built
// without one) yield nil, which downgrades gracefully: declarations
// advertise an empty object and coercion is skipped.
func inputSchema(tool *mcp.Tool) *jsonschema.Schema {
	schema, _ := tool.InputSchema.(*jsonschema.Schema)
	return schema
}

// toGenaiSchema maps the subset of JSON Schema that tool inputs use onto
// the Gemini schema type. Unknown or missing types come through as
// objects, which the API tolerates.
func toGenaiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toGenaiSchema(s.Items)
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object", "":
		return genai.TypeObject
	default:
		return genai.TypeObject
	}
}
