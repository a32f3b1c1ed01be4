package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

const helpText = `Commands:
  help             show this help
  tools            list the tools discovered on connected servers
  list notes       show saved notes (servers exposing notes:list)
  list documents   show generated documents (documents:list)
  use prompt <name>  fill in a server prompt template and send it
  clear            forget the conversation so far
  exit             leave (also: quit, bye)

Anything else is sent to the model.`

// handleCommand intercepts REPL commands. handled reports whether the
// line was a command; quit asks the loop to stop.
func (c *Chat) handleCommand(ctx context.Context, line string) (handled, quit bool, err error) {
	switch strings.ToLower(line) {
	case "help", "?":
		c.console.Println(helpText)
		return true, false, nil

	case "exit", "quit", "bye":
		c.console.System("goodbye")
		return true, true, nil

	case "clear":
		c.history = nil
		c.console.System("conversation cleared")
		return true, false, nil

	case "tools":
		c.listTools()
		return true, false, nil

	case "list notes":
		return true, false, c.listResource(ctx, "notes:list", "no notes found")

	case "list documents":
		return true, false, c.listResource(ctx, "documents:list", "no documents found")
	}

	if name, ok := strings.CutPrefix(line, "use prompt "); ok {
		return true, false, c.usePrompt(ctx, strings.TrimSpace(name))
	}
	return false, false, nil
}

func (c *Chat) listTools() {
	tools := c.group.Tools()
	if len(tools) == 0 {
		c.console.System("no tools discovered")
		return
	}
	var b strings.Builder
	for _, tool := range tools {
		fmt.Fprintf(&b, "  %-24s %s\n", tool.Name, tool.Description)
	}
	c.console.Println(strings.TrimRight(b.String(), "\n"))
}

// listResource reads a resource URI from whichever session can serve it.
func (c *Chat) listResource(ctx context.Context, uri, emptyMsg string) error {
	var lastErr error
	for _, session := range c.group.Sessions() {
		res, err := session.ReadResource(ctx, uri)
		if err != nil {
			lastErr = err
			continue
		}
		text := joinResourceText(res)
		if strings.TrimSpace(text) == "[]" || strings.TrimSpace(text) == "" {
			c.console.System(emptyMsg)
			return nil
		}
		c.console.Println(text)
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("no connected server exposes %s: %w", uri, lastErr)
	}
	return fmt.Errorf("no connected server exposes %s", uri)
}

func joinResourceText(res *mcp.ReadResourceResult) string {
	var parts []string
	for _, contents := range res.Contents {
		if contents.Text != "" {
			parts = append(parts, contents.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// usePrompt fetches a server prompt template, asks the user for its
// arguments, and feeds the resulting messages to the model.
func (c *Chat) usePrompt(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("usage: use prompt <name>")
	}

	session, prompt, ok := c.group.FindPrompt(name)
	if !ok {
		available := c.group.Prompts()
		if len(available) == 0 {
			return fmt.Errorf("no connected server exposes prompt %q", name)
		}
		names := make([]string, 0, len(available))
		for _, p := range available {
			names = append(names, p.Name)
		}
		return fmt.Errorf("unknown prompt %q; available: %s", name, strings.Join(names, ", "))
	}

	args := make(map[string]string, len(prompt.Arguments))
	for _, arg := range prompt.Arguments {
		marker := ""
		if arg.Required {
			marker = " (required)"
		}
		c.console.Input(fmt.Sprintf("%s%s: ", arg.Name, marker))
		if c.scanner == nil || !c.scanner.Scan() {
			return errors.New("input closed while reading prompt arguments")
		}
		value := strings.TrimSpace(c.scanner.Text())
		if value == "" {
			if arg.Required {
				return fmt.Errorf("argument %q is required", arg.Name)
			}
			continue
		}
		args[arg.Name] = value
	}

	res, err := session.GetPrompt(ctx, name, args)
	if err != nil {
		return fmt.Errorf("fetching prompt %q: %w", name, err)
	}

	seeded := false
	for _, msg := range res.Messages {
		tc, ok := msg.Content.(*mcp.TextContent)
		if !ok || tc.Text == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		c.console.Prompt(name, tc.Text)
		c.history = append(c.history, genai.NewContentFromText(tc.Text, role))
		seeded = true
	}
	if !seeded {
		return fmt.Errorf("prompt %q produced no usable messages", name)
	}

	return c.generate(ctx)
}
