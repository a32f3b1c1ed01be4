package client

import (
	"errors"
	"testing"

	"github.com/hsinyulu/mcp-playground/internal/config"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Endpoint
		wantErr bool
	}{
		{
			name: "sse url",
			spec: "http://localhost:8000/sse",
			want: Endpoint{Name: "http://localhost:8000/sse", URL: "http://localhost:8000/sse"},
		},
		{
			name: "https url",
			spec: "https://example.com/sse",
			want: Endpoint{Name: "https://example.com/sse", URL: "https://example.com/sse"},
		},
		{
			name: "streamable hint",
			spec: "http+stream://localhost:8000/mcp",
			want: Endpoint{Name: "http://localhost:8000/mcp", URL: "http://localhost:8000/mcp", Streamable: true},
		},
		{
			name: "python script",
			spec: "./server.py",
			want: Endpoint{Name: "./server.py", Command: "python3", Args: []string{"./server.py"}},
		},
		{
			name: "node script",
			spec: "build/server.js",
			want: Endpoint{Name: "build/server.js", Command: "node", Args: []string{"build/server.js"}},
		},
		{
			name: "plain command with args",
			spec: "mcplab knowledge --data-dir /tmp/kb",
			want: Endpoint{Name: "mcplab", Command: "mcplab", Args: []string{"knowledge", "--data-dir", "/tmp/kb"}},
		},
		{
			name:    "empty",
			spec:    "   ",
			wantErr: true,
		},
		{
			name:    "url without host",
			spec:    "http://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSpec(%q) expected error, got %+v", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSpec(%q) unexpected error: %v", tt.spec, err)
			}
			if got.Name != tt.want.Name || got.Command != tt.want.Command || got.URL != tt.want.URL || got.Streamable != tt.want.Streamable {
				t.Errorf("ParseSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
			if len(got.Args) != len(tt.want.Args) {
				t.Fatalf("ParseSpec(%q) args = %v, want %v", tt.spec, got.Args, tt.want.Args)
			}
			for i := range got.Args {
				if got.Args[i] != tt.want.Args[i] {
					t.Errorf("ParseSpec(%q) args = %v, want %v", tt.spec, got.Args, tt.want.Args)
					break
				}
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	ep, err := FromConfig("knowledge", config.ServerConfig{
		Command: "mcplab",
		Args:    []string{"knowledge"},
		Env:     map[string]string{"MCPLAB_DATA_DIR": "/tmp/kb"},
	})
	if err != nil {
		t.Fatalf("FromConfig() unexpected error: %v", err)
	}
	if ep.Name != "knowledge" || ep.Command != "mcplab" {
		t.Errorf("FromConfig() = %+v", ep)
	}
	if ep.Env["MCPLAB_DATA_DIR"] != "/tmp/kb" {
		t.Errorf("env not carried: %v", ep.Env)
	}
}

func TestFromConfig_Empty(t *testing.T) {
	_, err := FromConfig("empty", config.ServerConfig{})
	if !errors.Is(err, ErrEmptyEndpoint) {
		t.Errorf("FromConfig() error = %v, want ErrEmptyEndpoint", err)
	}
}

func TestFromConfig_BadURL(t *testing.T) {
	_, err := FromConfig("bad", config.ServerConfig{URL: "http://"})
	if err == nil {
		t.Error("FromConfig() expected error for URL without host")
	}
}
