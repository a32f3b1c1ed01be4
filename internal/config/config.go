// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest priority):
//  1. Environment variables (MCPLAB_* overrides, GEMINI_API_KEY)
//  2. Config file (~/.mcplab/config.yaml or ./config.yaml)
//  3. Defaults
//
// The hosted-model API key is only required by commands that talk to the
// model; RequireAPIKey() enforces it fail-fast at startup for those.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates the Gemini API key is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMaxTurns indicates the tool-resolution turn limit is invalid.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidDataDir indicates the knowledge store directory is unusable.
	ErrInvalidDataDir = errors.New("invalid data directory")
)

// Limits for validation. Generous on purpose: these exist to catch typos
// (negative counts, temperature 70 instead of 0.7), not to police usage.
const (
	MaxTemperature = 2.0
	MaxTokensLimit = 65536
	MaxTurnsLimit  = 32
)

// Config stores application configuration.
type Config struct {
	// Hosted model configuration.
	GeminiAPIKey string  `mapstructure:"gemini_api_key" json:"-"` // SENSITIVE: never serialized
	ModelName    string  `mapstructure:"model_name" json:"model_name"`
	Temperature  float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens" json:"max_tokens"`

	// MaxTurns bounds how many tool-resolution rounds a single query may
	// take before the client gives up and reports the partial result.
	MaxTurns int `mapstructure:"max_turns" json:"max_turns"`

	// DataDir is the root of the knowledge server's on-disk store.
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	// LogFile is where interactive clients write their logs. Empty means
	// the OS temp directory default.
	LogFile string `mapstructure:"log_file" json:"log_file"`

	// HistoryFile records every line entered in the interactive chat
	// loop, shell-history style. Empty disables recording.
	HistoryFile string `mapstructure:"history_file" json:"history_file"`

	// Servers are named MCP endpoints the chat client may connect to when
	// no server is given on the command line. See servers.go for the JSON
	// config-file equivalent.
	Servers map[string]ServerConfig `mapstructure:"servers" json:"servers"`
}

// ServerConfig describes one MCP server endpoint: either a subprocess to
// spawn (Command/Args/Env) or a URL to a streamed HTTP endpoint.
type ServerConfig struct {
	Command string            `mapstructure:"command" json:"command"`
	Args    []string          `mapstructure:"args" json:"args"`
	Env     map[string]string `mapstructure:"env" json:"env"`
	URL     string            `mapstructure:"url" json:"url"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".mcplab"))
	v.AddConfigPath(".")

	setDefaults(v, home)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 4000)
	v.SetDefault("max_turns", 8)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("history_file", filepath.Join(home, ".mcplab", "history"))
}

// bindEnv binds environment variables explicitly. Hardcoded keys cannot
// fail to bind; a panic here is a bug, not a runtime condition.
func bindEnv(v *viper.Viper) {
	mustBind := func(key string, envVars ...string) {
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q: %v", key, err))
		}
	}

	// GEMINI_API_KEY matches the genai SDK's own convention; the MCPLAB_
	// form wins when both are set.
	mustBind("gemini_api_key", "MCPLAB_GEMINI_API_KEY", "GEMINI_API_KEY")
	mustBind("model_name", "MCPLAB_MODEL_NAME")
	mustBind("temperature", "MCPLAB_TEMPERATURE")
	mustBind("max_tokens", "MCPLAB_MAX_TOKENS")
	mustBind("data_dir", "MCPLAB_DATA_DIR")
	mustBind("log_file", "MCPLAB_LOG_FILE")
	mustBind("history_file", "MCPLAB_HISTORY_FILE")
}

// Validate performs range checks on all fields. The API key is not checked
// here; see RequireAPIKey.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return fmt.Errorf("%w: %v (must be between 0 and %v)", ErrInvalidTemperature, c.Temperature, MaxTemperature)
	}
	if c.MaxTokens <= 0 || c.MaxTokens > MaxTokensLimit {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidMaxTokens, c.MaxTokens, MaxTokensLimit)
	}
	if c.MaxTurns <= 0 || c.MaxTurns > MaxTurnsLimit {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidMaxTurns, c.MaxTurns, MaxTurnsLimit)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data directory must not be empty", ErrInvalidDataDir)
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey if no Gemini API key is
// configured. Commands that call the hosted model run this before any
// connection is opened.
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: set MCPLAB_GEMINI_API_KEY or GEMINI_API_KEY", ErrMissingAPIKey)
	}
	return nil
}
