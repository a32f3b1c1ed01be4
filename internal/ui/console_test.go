package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConsole_Assistant(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Assistant("The answer is **42**.")

	got := buf.String()
	if !strings.Contains(got, "Assistant") {
		t.Errorf("output missing panel title, got %q", got)
	}
	if !strings.Contains(got, "42") {
		t.Errorf("output missing body text, got %q", got)
	}
}

func TestConsole_Error(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Error(errors.New("tool exploded"))

	if !strings.Contains(buf.String(), "tool exploded") {
		t.Errorf("output missing error text, got %q", buf.String())
	}
}

func TestConsole_ToolCall(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ToolCall("add", `{"a":5,"b":3}`)

	if !strings.Contains(buf.String(), "add") {
		t.Errorf("output missing tool name, got %q", buf.String())
	}
}

func TestConsole_MarkdownFallback(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.markdown = nil // simulate renderer construction failure

	c.Assistant("plain text")

	if !strings.Contains(buf.String(), "plain text") {
		t.Errorf("fallback output missing text, got %q", buf.String())
	}
}
