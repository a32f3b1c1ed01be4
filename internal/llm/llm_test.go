package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/hsinyulu/mcp-playground/internal/config"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	cfg := &config.Config{
		ModelName:   "gemini-2.5-flash",
		Temperature: 0.7,
		MaxTokens:   4000,
	}

	_, err := New(context.Background(), cfg)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Errorf("New() without key error = %v, want ErrMissingAPIKey", err)
	}
}

func TestNew_WithKey(t *testing.T) {
	cfg := &config.Config{
		GeminiAPIKey: "test-key",
		ModelName:    "gemini-2.5-flash",
		Temperature:  0.7,
		MaxTokens:    4000,
	}

	g, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if g.Model() != "gemini-2.5-flash" {
		t.Errorf("Model() = %q", g.Model())
	}
}
