// Package ui renders chat output to the terminal. A Console is constructed
// per session and passed into components explicitly; there is no package
// singleton, so concurrent sessions never share rendering state.
package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
)

const defaultWidth = 100

// Styles holds the lipgloss styles used for chat output.
type Styles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Tool      lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Tool:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// Console writes styled chat output to a single destination.
type Console struct {
	w        io.Writer
	styles   Styles
	markdown *glamour.TermRenderer
}

// NewConsole creates a console writing to w. Markdown rendering degrades
// to plain text if the glamour renderer cannot be built (e.g. no TTY).
func NewConsole(w io.Writer) *Console {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(defaultWidth),
	)
	if err != nil {
		r = nil
	}
	return &Console{w: w, styles: DefaultStyles(), markdown: r}
}

// renderMarkdown converts markdown to styled terminal output, falling back
// to the raw text on any rendering failure.
func (c *Console) renderMarkdown(text string) string {
	if c.markdown == nil {
		return text
	}
	rendered, err := c.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSuffix(rendered, "\n")
}

// Assistant prints a model reply as a titled markdown panel.
func (c *Console) Assistant(text string) {
	c.panel("Assistant", c.renderMarkdown(text), c.styles.Assistant)
}

// ToolCall announces a tool invocation the model requested.
func (c *Console) ToolCall(name string, args string) {
	fmt.Fprintln(c.w, c.styles.Tool.Render(fmt.Sprintf("⚙ calling %s %s", name, args)))
}

// ToolResult prints a tool's result panel.
func (c *Console) ToolResult(name, text string) {
	c.panel(name+" result", c.renderMarkdown(text), c.styles.Tool)
}

// Prompt prints a rendered prompt template before it is sent to the model.
func (c *Console) Prompt(name, text string) {
	c.panel("prompt: "+name, c.renderMarkdown(text), c.styles.System)
}

// Input prints an input prompt without a trailing newline.
func (c *Console) Input(text string) {
	fmt.Fprint(c.w, c.styles.User.Render(text))
}

// System prints an informational line (connection banners, hints).
func (c *Console) System(text string) {
	fmt.Fprintln(c.w, c.styles.System.Render(text))
}

// Error prints an error line. Errors shown here are session-level: the
// loop keeps running after them.
func (c *Console) Error(err error) {
	fmt.Fprintln(c.w, c.styles.Error.Render("error: "+err.Error()))
}

// Errorf prints a formatted error line.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.w, c.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Println writes an unstyled line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.w, args...)
}

func (c *Console) panel(title, body string, titleStyle lipgloss.Style) {
	fmt.Fprintln(c.w, titleStyle.Render(title))
	fmt.Fprintln(c.w, c.styles.Panel.Render(body))
}
