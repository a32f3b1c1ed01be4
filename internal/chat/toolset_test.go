package chat

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

func TestDeclarations(t *testing.T) {
	tools := []*mcp.Tool{{
		Name:        "create_note",
		Description: "Save a note.",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"title"},
			Properties: map[string]*jsonschema.Schema{
				"title": {Type: "string", Description: "note title"},
				"count": {Type: "integer"},
				"ratio": {Type: "number"},
				"pin":   {Type: "boolean"},
				"tags":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
	}}

	decls := declarations(tools)
	if len(decls) != 1 {
		t.Fatalf("len(decls) = %d, want 1", len(decls))
	}

	d := decls[0]
	if d.Name != "create_note" || d.Description != "Save a note." {
		t.Errorf("declaration header = %q / %q", d.Name, d.Description)
	}
	if d.Parameters.Type != genai.TypeObject {
		t.Errorf("Parameters.Type = %v, want object", d.Parameters.Type)
	}
	if got := d.Parameters.Required; len(got) != 1 || got[0] != "title" {
		t.Errorf("Required = %v, want [title]", got)
	}

	wantTypes := map[string]genai.Type{
		"title": genai.TypeString,
		"count": genai.TypeInteger,
		"ratio": genai.TypeNumber,
		"pin":   genai.TypeBoolean,
		"tags":  genai.TypeArray,
	}
	for name, want := range wantTypes {
		prop, ok := d.Parameters.Properties[name]
		if !ok {
			t.Errorf("property %q missing", name)
			continue
		}
		if prop.Type != want {
			t.Errorf("property %q type = %v, want %v", name, prop.Type, want)
		}
	}
	if d.Parameters.Properties["tags"].Items.Type != genai.TypeString {
		t.Error("array items type not converted")
	}
	if d.Parameters.Properties["title"].Description != "note title" {
		t.Error("property description not carried over")
	}
}

func TestDeclarations_NilSchema(t *testing.T) {
	decls := declarations([]*mcp.Tool{{Name: "bare"}})
	if decls[0].Parameters.Type != genai.TypeObject {
		t.Errorf("nil schema should map to an empty object, got %v", decls[0].Parameters.Type)
	}
}
