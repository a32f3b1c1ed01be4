package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoServers indicates a server config file defined no usable servers.
var ErrNoServers = errors.New("no MCP servers in configuration")

// serversFile mirrors the conventional MCP client configuration layout:
//
//	{
//	  "mcpServers": {
//	    "knowledge": {"command": "mcplab", "args": ["knowledge"], "env": {}},
//	    "math":      {"url": "http://localhost:8000/sse"}
//	  }
//	}
type serversFile struct {
	Servers map[string]ServerConfig `json:"mcpServers"`
}

// LoadServers reads MCP server definitions from a JSON config file. Entries
// with neither a command nor a URL are skipped; an empty result is an error
// since the caller has nothing to connect to.
func LoadServers(path string) (map[string]ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading server config: %w", err)
	}

	var file serversFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing server config %s: %w", path, err)
	}

	servers := make(map[string]ServerConfig, len(file.Servers))
	for name, sc := range file.Servers {
		if sc.Command == "" && sc.URL == "" {
			continue
		}
		servers[name] = sc
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoServers, path)
	}
	return servers, nil
}
