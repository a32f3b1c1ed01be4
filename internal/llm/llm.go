// Package llm wraps the Gemini API client behind the minimal surface the
// chat loop needs: send a conversation plus tool declarations, get back
// one model reply.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hsinyulu/mcp-playground/internal/config"
)

// Generator sends conversations to the hosted model.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// New creates a Generator from configuration. The API key must be present;
// its absence is a startup error, checked before any connection is opened.
func New(ctx context.Context, cfg *config.Config) (*Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Generator{
		client:      client,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens), //nolint:gosec // bounded by config validation
	}, nil
}

// Generate sends the conversation so far, advertising the given tool
// declarations, and returns the model's reply. The caller inspects the
// reply for function calls; this layer does not loop.
func (g *Generator) Generate(ctx context.Context, history []*genai.Content, decls []*genai.FunctionDeclaration) (*genai.GenerateContentResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	}
	if len(decls) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, history, cfg)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	return resp, nil
}

// Model returns the configured model name, for display.
func (g *Generator) Model() string { return g.model }
