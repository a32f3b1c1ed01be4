package client

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

// Group routes tool calls across several sessions by tool name, following
// the multi-server client configuration style. First session to declare a
// name wins; the tutorial servers have disjoint tool sets so collisions
// do not arise in practice.
type Group struct {
	sessions []*Session
}

// DialAll connects to every endpoint in order. If any connection fails the
// already-opened sessions are closed and the error is returned; a partial
// group is never handed to the caller.
func DialAll(ctx context.Context, eps []Endpoint, logger log.Logger) (*Group, error) {
	g := &Group{}
	for _, ep := range eps {
		s, err := Dial(ctx, ep, logger)
		if err != nil {
			_ = g.Close()
			return nil, err
		}
		g.sessions = append(g.sessions, s)
	}
	return g, nil
}

// NewGroup assembles a group from already-connected sessions.
func NewGroup(sessions ...*Session) *Group {
	return &Group{sessions: sessions}
}

// Sessions returns the member sessions in connection order.
func (g *Group) Sessions() []*Session { return g.sessions }

// Tools returns all discovered tool descriptors across the group.
func (g *Group) Tools() []*mcp.Tool {
	var all []*mcp.Tool
	for _, s := range g.sessions {
		all = append(all, s.Tools()...)
	}
	return all
}

// Prompts returns all discovered prompt descriptors across the group.
func (g *Group) Prompts() []*mcp.Prompt {
	var all []*mcp.Prompt
	for _, s := range g.sessions {
		all = append(all, s.Prompts()...)
	}
	return all
}

// FindTool returns the session that declared the named tool.
func (g *Group) FindTool(name string) (*Session, *mcp.Tool, bool) {
	for _, s := range g.sessions {
		if t, ok := s.FindTool(name); ok {
			return s, t, true
		}
	}
	return nil, nil, false
}

// FindPrompt returns the session that declared the named prompt.
func (g *Group) FindPrompt(name string) (*Session, *mcp.Prompt, bool) {
	for _, s := range g.sessions {
		if p, ok := s.FindPrompt(name); ok {
			return s, p, true
		}
	}
	return nil, nil, false
}

// Close closes every session, joining any errors.
func (g *Group) Close() error {
	var errs []error
	for _, s := range g.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
