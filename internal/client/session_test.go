package client

import (
	"context"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

type echoInput struct {
	Text string `json:"text"`
}

// startTestServer builds a minimal SDK server with one tool and one
// prompt, connects a client over in-memory transports, and wraps the
// client side in a Session.
func startTestServer(t *testing.T) *Session {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "test-server", Version: "0.0.1"}, nil)

	schema, err := jsonschema.For[echoInput](nil)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "echo",
		Description: "Echo the input text back.",
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: in.Text}},
		}, nil, nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "greeting",
		Description: "A canned greeting.",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "greeting",
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: "Say hello."}},
			},
		}, nil
	})

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	c := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })

	session, err := NewSession(ctx, cs, "test", log.NewNop())
	if err != nil {
		t.Fatalf("NewSession() unexpected error: %v", err)
	}
	return session
}

func TestSession_DiscoversCapabilities(t *testing.T) {
	session := startTestServer(t)

	if _, ok := session.FindTool("echo"); !ok {
		t.Error("echo tool not discovered")
	}
	if _, ok := session.FindTool("missing"); ok {
		t.Error("FindTool returned a tool that was never declared")
	}
	if _, ok := session.FindPrompt("greeting"); !ok {
		t.Error("greeting prompt not discovered")
	}
}

func TestSession_DescriptorsAreStable(t *testing.T) {
	session := startTestServer(t)

	first := session.Tools()
	second := session.Tools()
	if len(first) != len(second) {
		t.Fatalf("tool set changed between reads: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("tool %d changed: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}
}

func TestSession_DecodesToolSchemas(t *testing.T) {
	session := startTestServer(t)

	tool, ok := session.FindTool("echo")
	if !ok {
		t.Fatal("echo tool not discovered")
	}

	// Over the wire the schema arrives as decoded JSON; the session must
	// hand consumers a parsed schema instead.
	schema, ok := tool.InputSchema.(*jsonschema.Schema)
	if !ok {
		t.Fatalf("InputSchema is %T, want *jsonschema.Schema", tool.InputSchema)
	}
	if schema == nil {
		t.Fatal("InputSchema is nil")
	}
	prop, ok := schema.Properties["text"]
	if !ok {
		t.Fatalf("schema properties = %v, want a text entry", schema.Properties)
	}
	if prop.Type != "string" {
		t.Errorf("text property type = %q, want string", prop.Type)
	}
}

func TestDecodeSchema(t *testing.T) {
	t.Run("wire map", func(t *testing.T) {
		schema, err := decodeSchema(map[string]any{
			"type":     "object",
			"required": []any{"a"},
			"properties": map[string]any{
				"a": map[string]any{"type": "integer"},
			},
		})
		if err != nil {
			t.Fatalf("decodeSchema() error = %v", err)
		}
		if schema.Properties["a"].Type != "integer" {
			t.Errorf("property type = %q, want integer", schema.Properties["a"].Type)
		}
		if len(schema.Required) != 1 || schema.Required[0] != "a" {
			t.Errorf("required = %v, want [a]", schema.Required)
		}
	})

	t.Run("already parsed", func(t *testing.T) {
		in := &jsonschema.Schema{Type: "object"}
		schema, err := decodeSchema(in)
		if err != nil {
			t.Fatalf("decodeSchema() error = %v", err)
		}
		if schema != in {
			t.Error("parsed schema should pass through unchanged")
		}
	})

	t.Run("nil", func(t *testing.T) {
		schema, err := decodeSchema(nil)
		if err != nil || schema != nil {
			t.Errorf("decodeSchema(nil) = (%v, %v), want (nil, nil)", schema, err)
		}
	})
}

func TestSession_CallTool(t *testing.T) {
	session := startTestServer(t)

	result, err := session.CallTool(context.Background(), "echo", map[string]any{"text": "hello"})
	if err != nil {
		t.Fatalf("CallTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("CallTool() returned error result: %+v", result)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want *mcp.TextContent", result.Content[0])
	}
	if text.Text != "hello" {
		t.Errorf("echo returned %q, want %q", text.Text, "hello")
	}
}

func TestSession_GetPrompt(t *testing.T) {
	session := startTestServer(t)

	result, err := session.GetPrompt(context.Background(), "greeting", nil)
	if err != nil {
		t.Fatalf("GetPrompt() unexpected error: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(result.Messages))
	}
}

func TestGroup_RoutesByToolName(t *testing.T) {
	a := startTestServer(t)
	b := startTestServer(t)
	group := NewGroup(a, b)

	session, tool, ok := group.FindTool("echo")
	if !ok {
		t.Fatal("echo not found in group")
	}
	if session != a {
		t.Error("expected first session to win for duplicate tool names")
	}
	if tool.Name != "echo" {
		t.Errorf("tool name = %q", tool.Name)
	}

	if _, _, ok := group.FindTool("missing"); ok {
		t.Error("FindTool returned a tool no session declared")
	}

	if got := len(group.Tools()); got != 2 {
		t.Errorf("group tool count = %d, want 2", got)
	}
}
