// Package client wraps the official MCP SDK client with session-scoped
// capability discovery.
//
// A Session owns exactly one transport (spawned subprocess or HTTP stream)
// for its lifetime. Tool and prompt descriptors are fetched once right
// after the handshake and cached; the protocol allows capabilities to
// change mid-session but these tutorial servers never do, so there is no
// invalidation.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

const (
	clientName    = "mcplab"
	clientVersion = "0.2.0"
)

// Session is one connected MCP client session with cached capability
// descriptors.
type Session struct {
	endpoint Endpoint
	logger   log.Logger
	cs       *mcp.ClientSession

	tools   []*mcp.Tool
	prompts []*mcp.Prompt
}

// Dial connects to the endpoint, performs the initialize handshake, and
// discovers the server's tools and prompts. Any failure here is fatal to
// the session: the error is returned and nothing is retried.
func Dial(ctx context.Context, ep Endpoint, logger log.Logger) (*Session, error) {
	transport, err := ep.transport(ctx)
	if err != nil {
		return nil, err
	}

	c := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)
	cs, err := c.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", ep.Name, err)
	}

	s := &Session{endpoint: ep, logger: logger, cs: cs}
	if err := s.discover(ctx); err != nil {
		_ = cs.Close()
		return nil, err
	}
	return s, nil
}

// NewSession wraps an already-connected SDK session and performs discovery.
// Used by tests with in-memory transports.
func NewSession(ctx context.Context, cs *mcp.ClientSession, name string, logger log.Logger) (*Session, error) {
	s := &Session{endpoint: Endpoint{Name: name}, logger: logger, cs: cs}
	if err := s.discover(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// discover fetches the descriptor lists once per connection.
func (s *Session) discover(ctx context.Context) error {
	tools, err := s.cs.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("listing tools on %s: %w", s.endpoint.Name, err)
	}
	s.tools = tools.Tools
	s.decodeSchemas()

	// Prompts are optional; servers without the capability report a
	// protocol error which only means "none here".
	prompts, err := s.cs.ListPrompts(ctx, nil)
	if err != nil {
		s.logger.Debug("server does not expose prompts", "server", s.endpoint.Name, "error", err)
	} else {
		s.prompts = prompts.Prompts
	}

	s.logger.Info("connected",
		"server", s.endpoint.Name,
		"tools", len(s.tools),
		"prompts", len(s.prompts))
	return nil
}

// decodeSchemas replaces each discovered tool's input schema, which
// arrives as wire-decoded JSON, with a parsed *jsonschema.Schema. Done
// once here so every downstream consumer sees one shape instead of
// re-inspecting the wire form per call.
func (s *Session) decodeSchemas() {
	for _, t := range s.tools {
		schema, err := decodeSchema(t.InputSchema)
		if err != nil {
			s.logger.Warn("unparseable tool schema, argument coercion disabled",
				"server", s.endpoint.Name, "tool", t.Name, "error", err)
			t.InputSchema = (*jsonschema.Schema)(nil)
			continue
		}
		t.InputSchema = schema
	}
}

func decodeSchema(v any) (*jsonschema.Schema, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case *jsonschema.Schema:
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Name returns the endpoint name this session is connected to.
func (s *Session) Name() string { return s.endpoint.Name }

// Tools returns the cached tool descriptors discovered at connect time.
func (s *Session) Tools() []*mcp.Tool { return s.tools }

// Prompts returns the cached prompt descriptors.
func (s *Session) Prompts() []*mcp.Prompt { return s.prompts }

// FindTool looks a tool up in the discovered set.
func (s *Session) FindTool(name string) (*mcp.Tool, bool) {
	for _, t := range s.tools {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// FindPrompt looks a prompt up in the discovered set.
func (s *Session) FindPrompt(name string) (*mcp.Prompt, bool) {
	for _, p := range s.prompts {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// CallTool invokes a tool on the server. Protocol-level errors come back
// as the error; tool-level failures come back as a result with IsError
// set, which the caller folds into the conversation.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return s.cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
}

// ReadResource reads a resource by URI.
func (s *Session) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return s.cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
}

// GetPrompt renders a prompt template with the given arguments.
func (s *Session) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	return s.cs.GetPrompt(ctx, &mcp.GetPromptParams{Name: name, Arguments: args})
}

// Close releases the transport: for subprocess endpoints this terminates
// the child, for HTTP endpoints it tears down the stream.
func (s *Session) Close() error {
	if s.cs == nil {
		return nil
	}
	return s.cs.Close()
}
