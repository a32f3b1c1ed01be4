// Package chat drives the interactive LLM loop: user turns go to the
// model together with the tool catalog discovered over MCP, requested
// tool calls run against the connected servers, and their results feed
// back into the conversation until the model answers in plain text.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"

	"github.com/hsinyulu/mcp-playground/internal/client"
	"github.com/hsinyulu/mcp-playground/internal/log"
	"github.com/hsinyulu/mcp-playground/internal/ui"
)

// generator is the slice of the LLM client the loop needs. It is small
// so tests can script model behavior.
type generator interface {
	Generate(ctx context.Context, history []*genai.Content, decls []*genai.FunctionDeclaration) (*genai.GenerateContentResponse, error)
	Model() string
}

// Chat holds one conversation over a group of MCP sessions.
type Chat struct {
	gen      generator
	group    *client.Group
	console  *ui.Console
	logger   log.Logger
	maxTurns int

	history  []*genai.Content
	scanner  *bufio.Scanner
	historyW io.Writer
}

// New builds a chat over the given sessions. maxTurns bounds how many
// model round-trips one user turn may trigger.
func New(gen generator, group *client.Group, console *ui.Console, logger log.Logger, maxTurns int) *Chat {
	if logger == nil {
		logger = log.NewNop()
	}
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Chat{
		gen:      gen,
		group:    group,
		console:  console,
		logger:   logger,
		maxTurns: maxTurns,
	}
}

// RecordHistory appends every line entered in Run to w, shell-history
// style. With a plain line reader there is no recall inside the session;
// the file is a durable record across runs, not an input.
func (c *Chat) RecordHistory(w io.Writer) {
	c.historyW = w
}

// Ask runs a single one-shot query and returns once the model answers.
func (c *Chat) Ask(ctx context.Context, query string) error {
	c.pushUser(query)
	return c.generate(ctx)
}

// Run reads lines from r until exit or EOF. Command lines are handled
// locally; everything else becomes a model turn. Model and tool failures
// are reported and the loop continues.
func (c *Chat) Run(ctx context.Context, r io.Reader) error {
	c.scanner = bufio.NewScanner(r)
	c.console.System(fmt.Sprintf("connected to %d server(s), %d tool(s) available — type 'help' for commands",
		len(c.group.Sessions()), len(c.group.Tools())))

	for {
		c.console.Input("you> ")
		if !c.scanner.Scan() {
			return c.scanner.Err()
		}
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}
		if c.historyW != nil {
			fmt.Fprintln(c.historyW, line)
		}

		handled, quit, err := c.handleCommand(ctx, line)
		if err != nil {
			c.console.Errorf("%v", err)
			continue
		}
		if quit {
			return nil
		}
		if handled {
			continue
		}

		if err := c.Ask(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.console.Errorf("model error: %v", err)
		}
	}
}

func (c *Chat) pushUser(text string) {
	c.history = append(c.history, genai.NewContentFromText(text, genai.RoleUser))
}

// generate loops model calls until the model stops requesting tools or
// the turn budget runs out.
func (c *Chat) generate(ctx context.Context) error {
	decls := declarations(c.group.Tools())

	for turn := 0; turn < c.maxTurns; turn++ {
		resp, err := c.gen.Generate(ctx, c.history, decls)
		if err != nil {
			return fmt.Errorf("calling %s: %w", c.gen.Model(), err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				text = "(no response)"
			}
			c.history = append(c.history, genai.NewContentFromText(text, genai.RoleModel))
			c.console.Assistant(text)
			return nil
		}

		c.recordCalls(calls)

		responses := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			responses = append(responses, c.executeCall(ctx, call))
		}
		c.history = append(c.history, genai.NewContentFromParts(responses, genai.RoleUser))
	}

	c.console.Errorf("stopped after %d tool turns without a final answer", c.maxTurns)
	return nil
}

// recordCalls appends the model turn that requested the calls, so the
// follow-up request shows the model its own function calls.
func (c *Chat) recordCalls(calls []*genai.FunctionCall) {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, genai.NewPartFromFunctionCall(call.Name, call.Args))
	}
	c.history = append(c.history, genai.NewContentFromParts(parts, genai.RoleModel))
}

// executeCall routes one requested call to the session that owns the
// tool. Failures become function responses rather than loop errors: the
// model sees what went wrong and can try something else.
func (c *Chat) executeCall(ctx context.Context, call *genai.FunctionCall) *genai.Part {
	session, tool, ok := c.group.FindTool(call.Name)
	if !ok {
		c.logger.Warn("model requested unknown tool", "tool", call.Name)
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": fmt.Sprintf("no tool named %q is available", call.Name),
		})
	}

	args := coerceArgs(call.Args, inputSchema(tool), c.logger)
	c.console.ToolCall(call.Name, formatArgs(args))

	result, err := session.CallTool(ctx, call.Name, args)
	if err != nil {
		c.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": err.Error(),
		})
	}

	text := resultText(result)
	if result.IsError {
		c.console.ToolResult(call.Name, "error: "+text)
		return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
			"error": text,
		})
	}

	c.console.ToolResult(call.Name, text)
	return genai.NewPartFromFunctionResponse(call.Name, map[string]any{
		"result": text,
	})
}

func formatArgs(args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

// resultText flattens a tool result to the text the model will read.
func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
