package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func getPromptText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]string) string {
	t.Helper()
	res, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("GetPrompt(%q) error = %v", name, err)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(res.Messages))
	}
	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Messages[0].Content)
	}
	return text.Text
}

func TestPrompts_List(t *testing.T) {
	cs, _ := connectSession(t)

	res, err := cs.ListPrompts(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListPrompts() error = %v", err)
	}

	names := make(map[string]bool, len(res.Prompts))
	for _, p := range res.Prompts {
		names[p.Name] = true
	}
	for _, want := range []string{"summarize", "ideastorm", "structured_analysis"} {
		if !names[want] {
			t.Errorf("prompt %q not advertised", want)
		}
	}
}

func TestPrompts_Summarize(t *testing.T) {
	cs, _ := connectSession(t)

	text := getPromptText(t, cs, "summarize", map[string]string{
		"context":       "A long treatise on goroutines.",
		"target_length": "two sentences",
	})
	if !strings.Contains(text, "two sentences") {
		t.Error("summary prompt missing target length")
	}
	if !strings.Contains(text, "goroutines") {
		t.Error("summary prompt missing the source text")
	}

	t.Run("default length", func(t *testing.T) {
		text := getPromptText(t, cs, "summarize", map[string]string{"context": "body"})
		if !strings.Contains(text, "one short paragraph") {
			t.Error("default target length not applied")
		}
	})

	t.Run("missing context", func(t *testing.T) {
		_, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: "summarize"})
		if err == nil {
			t.Fatal("summarize without context should fail")
		}
	})
}

func TestPrompts_Ideastorm(t *testing.T) {
	cs, _ := connectSession(t)

	t.Run("count clamped high", func(t *testing.T) {
		text := getPromptText(t, cs, "ideastorm", map[string]string{"topic": "caching", "count": "500"})
		if !strings.Contains(text, "Brainstorm 20 distinct ideas") {
			t.Errorf("count not clamped to 20: %q", text)
		}
	})

	t.Run("count clamped low", func(t *testing.T) {
		text := getPromptText(t, cs, "ideastorm", map[string]string{"topic": "caching", "count": "0"})
		if !strings.Contains(text, "Brainstorm 1 distinct ideas") {
			t.Errorf("count not clamped to 1: %q", text)
		}
	})

	t.Run("perspective included", func(t *testing.T) {
		text := getPromptText(t, cs, "ideastorm", map[string]string{
			"topic":       "onboarding",
			"perspective": "a new hire",
		})
		if !strings.Contains(text, "a new hire") {
			t.Error("perspective missing from prompt")
		}
	})

	t.Run("non-numeric count", func(t *testing.T) {
		_, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{
			Name:      "ideastorm",
			Arguments: map[string]string{"topic": "x", "count": "many"},
		})
		if err == nil {
			t.Fatal("non-numeric count should fail")
		}
	})
}

func TestPrompts_StructuredAnalysis(t *testing.T) {
	cs, _ := connectSession(t)

	text := getPromptText(t, cs, "structured_analysis", map[string]string{
		"text":          "The quarterly numbers.",
		"analysis_type": "technical",
	})
	if !strings.Contains(text, "technical analysis") {
		t.Error("analysis type missing from prompt")
	}
	if !strings.Contains(text, "One-paragraph summary") {
		t.Error("summary section should be included by default")
	}

	t.Run("summary excluded", func(t *testing.T) {
		text := getPromptText(t, cs, "structured_analysis", map[string]string{
			"text":            "body",
			"include_summary": "false",
		})
		if strings.Contains(text, "One-paragraph summary") {
			t.Error("summary section should be omitted")
		}
	})

	t.Run("bad analysis type", func(t *testing.T) {
		_, err := cs.GetPrompt(context.Background(), &mcp.GetPromptParams{
			Name:      "structured_analysis",
			Arguments: map[string]string{"text": "body", "analysis_type": "vibes"},
		})
		if err == nil {
			t.Fatal("unknown analysis type should fail")
		}
	})
}
