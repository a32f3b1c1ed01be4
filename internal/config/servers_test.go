package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeServersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadServers(t *testing.T) {
	path := writeServersFile(t, `{
		"mcpServers": {
			"knowledge": {"command": "mcplab", "args": ["knowledge"], "env": {"MCPLAB_DATA_DIR": "/tmp/data"}},
			"math": {"url": "http://localhost:8000/sse"}
		}
	}`)

	servers, err := LoadServers(path)
	if err != nil {
		t.Fatalf("LoadServers() unexpected error: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}

	kn := servers["knowledge"]
	if kn.Command != "mcplab" || len(kn.Args) != 1 || kn.Args[0] != "knowledge" {
		t.Errorf("knowledge server = %+v, want command mcplab [knowledge]", kn)
	}
	if kn.Env["MCPLAB_DATA_DIR"] != "/tmp/data" {
		t.Errorf("knowledge env = %v, missing MCPLAB_DATA_DIR", kn.Env)
	}
	if servers["math"].URL != "http://localhost:8000/sse" {
		t.Errorf("math URL = %q", servers["math"].URL)
	}
}

func TestLoadServers_SkipsEmptyEntries(t *testing.T) {
	path := writeServersFile(t, `{
		"mcpServers": {
			"empty": {},
			"ok": {"command": "echo"}
		}
	}`)

	servers, err := LoadServers(path)
	if err != nil {
		t.Fatalf("LoadServers() unexpected error: %v", err)
	}
	if _, found := servers["empty"]; found {
		t.Error("entry without command or URL should be skipped")
	}
	if _, found := servers["ok"]; !found {
		t.Error("valid entry missing")
	}
}

func TestLoadServers_NoUsableServers(t *testing.T) {
	path := writeServersFile(t, `{"mcpServers": {}}`)

	_, err := LoadServers(path)
	if !errors.Is(err, ErrNoServers) {
		t.Errorf("LoadServers() error = %v, want ErrNoServers", err)
	}
}

func TestLoadServers_MissingFile(t *testing.T) {
	_, err := LoadServers(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("LoadServers() expected error for missing file")
	}
}

func TestLoadServers_InvalidJSON(t *testing.T) {
	path := writeServersFile(t, `{not json`)

	_, err := LoadServers(path)
	if err == nil {
		t.Error("LoadServers() expected error for invalid JSON")
	}
}
