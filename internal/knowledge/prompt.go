package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "summarize",
		Description: "Summarize a piece of text to a target length.",
		Arguments: []*mcp.PromptArgument{
			{Name: "context", Description: "The text to summarize.", Required: true},
			{Name: "target_length", Description: "Rough length of the summary, e.g. 'one paragraph' or '3 sentences'."},
		},
	}, s.summarizePrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "ideastorm",
		Description: "Brainstorm ideas on a topic, optionally from a given perspective.",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "What to brainstorm about.", Required: true},
			{Name: "perspective", Description: "Viewpoint to brainstorm from, e.g. 'a beginner' or 'a security engineer'."},
			{Name: "count", Description: "How many ideas to produce, between 1 and 20."},
		},
	}, s.ideastormPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "structured_analysis",
		Description: "Analyze text with a structured, section-by-section breakdown.",
		Arguments: []*mcp.PromptArgument{
			{Name: "text", Description: "The text to analyze.", Required: true},
			{Name: "analysis_type", Description: "Kind of analysis: general, technical, or critical."},
			{Name: "include_summary", Description: "Whether to end with a one-paragraph summary (true/false)."},
		},
	}, s.structuredAnalysisPrompt)
}

// requireArg fetches a required prompt argument, erroring with the
// argument name so the caller knows what to supply.
func requireArg(req *mcp.GetPromptRequest, name string) (string, error) {
	value := strings.TrimSpace(req.Params.Arguments[name])
	if value == "" {
		return "", fmt.Errorf("prompt %q requires argument %q", req.Params.Name, name)
	}
	return value, nil
}

func userMessage(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: text},
		}},
	}
}

func (s *Server) summarizePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := requireArg(req, "context")
	if err != nil {
		return nil, err
	}
	length := req.Params.Arguments["target_length"]
	if length == "" {
		length = "one short paragraph"
	}

	return userMessage(fmt.Sprintf(
		"Summarize the following text in %s. Keep the key facts and drop everything else.\n\n%s",
		length, text)), nil
}

func (s *Server) ideastormPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic, err := requireArg(req, "topic")
	if err != nil {
		return nil, err
	}

	count := 5
	if raw := req.Params.Arguments["count"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: count %q is not a number", req.Params.Name, raw)
		}
		count = n
	}
	// Clamp rather than reject: the argument is advisory.
	if count < 1 {
		count = 1
	}
	if count > 20 {
		count = 20
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Brainstorm %d distinct ideas about: %s.\n", count, topic)
	if perspective := req.Params.Arguments["perspective"]; perspective != "" {
		fmt.Fprintf(&b, "Take the perspective of %s.\n", perspective)
	}
	b.WriteString("Number each idea and give one sentence of explanation per idea.")

	return userMessage(b.String()), nil
}

func (s *Server) structuredAnalysisPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := requireArg(req, "text")
	if err != nil {
		return nil, err
	}

	analysisType := req.Params.Arguments["analysis_type"]
	switch analysisType {
	case "", "general":
		analysisType = "general"
	case "technical", "critical":
	default:
		return nil, fmt.Errorf("prompt %q: analysis_type must be general, technical, or critical, got %q",
			req.Params.Name, analysisType)
	}

	includeSummary := true
	if raw := req.Params.Arguments["include_summary"]; raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: include_summary %q is not a boolean", req.Params.Name, raw)
		}
		includeSummary = v
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Perform a %s analysis of the following text.\n", analysisType)
	b.WriteString("Structure the answer as:\n")
	b.WriteString("1. Main points\n2. Supporting evidence\n3. Gaps or open questions\n")
	if includeSummary {
		b.WriteString("4. One-paragraph summary\n")
	}
	fmt.Fprintf(&b, "\nText:\n%s", text)

	return userMessage(b.String()), nil
}
