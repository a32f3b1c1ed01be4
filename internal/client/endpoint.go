package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/config"
)

// ErrEmptyEndpoint indicates an endpoint with neither a command nor a URL.
var ErrEmptyEndpoint = errors.New("endpoint has no command or URL")

// Endpoint describes how to reach one MCP server: a subprocess to spawn
// over stdio, or an HTTP endpoint carrying a streamed connection.
type Endpoint struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
	URL     string

	// Streamable selects the streamable HTTP transport instead of SSE
	// when URL is set.
	Streamable bool
}

// ParseSpec builds an Endpoint from a command-line server spec.
//
// Accepted forms:
//   - http(s) URL                  → SSE connection to that endpoint
//   - http+stream:// / https+stream:// → streamable HTTP connection
//   - a path ending in .py or .js  → spawned via python3 / node
//   - anything else                → split on whitespace and spawned directly
//
// The .py/.js handling mirrors the common tutorial convention of pointing
// a client straight at a server script.
func ParseSpec(spec string) (Endpoint, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Endpoint{}, ErrEmptyEndpoint
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, "http+stream://"), strings.HasPrefix(lowered, "https+stream://"):
		target := strings.Replace(spec, "+stream", "", 1)
		if err := checkURL(target); err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Name: target, URL: target, Streamable: true}, nil
	case strings.HasPrefix(lowered, "http://"), strings.HasPrefix(lowered, "https://"):
		if err := checkURL(spec); err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Name: spec, URL: spec}, nil
	}

	parts := strings.Fields(spec)
	command, args := parts[0], parts[1:]
	switch {
	case strings.HasSuffix(command, ".py"):
		return Endpoint{Name: command, Command: "python3", Args: append([]string{command}, args...)}, nil
	case strings.HasSuffix(command, ".js"):
		return Endpoint{Name: command, Command: "node", Args: append([]string{command}, args...)}, nil
	}
	return Endpoint{Name: command, Command: command, Args: args}, nil
}

// FromConfig converts a named config entry into an Endpoint.
func FromConfig(name string, sc config.ServerConfig) (Endpoint, error) {
	if sc.Command == "" && sc.URL == "" {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrEmptyEndpoint, name)
	}
	if sc.URL != "" {
		if err := checkURL(sc.URL); err != nil {
			return Endpoint{}, fmt.Errorf("server %q: %w", name, err)
		}
	}
	return Endpoint{
		Name:    name,
		Command: sc.Command,
		Args:    sc.Args,
		Env:     sc.Env,
		URL:     sc.URL,
	}, nil
}

// transport builds the SDK transport for this endpoint. Subprocess
// endpoints inherit the parent environment plus any configured overrides.
func (e Endpoint) transport(ctx context.Context) (mcp.Transport, error) {
	if e.URL != "" {
		if e.Streamable {
			return &mcp.StreamableClientTransport{Endpoint: e.URL}, nil
		}
		return &mcp.SSEClientTransport{Endpoint: e.URL}, nil
	}
	if e.Command == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyEndpoint, e.Name)
	}

	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	if len(e.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range e.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	return &mcp.CommandTransport{Command: cmd}, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint URL %q: missing host", raw)
	}
	return nil
}
