// Package arith is a minimal MCP server exposing four arithmetic tools.
// It exists to demonstrate the smallest useful tool server.
package arith

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "math"
	serverVersion = "0.2.0"
)

type operands struct {
	A float64 `json:"a" jsonschema:"the first operand"`
	B float64 `json:"b" jsonschema:"the second operand"`
}

// NewServer builds the math MCP server.
func NewServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	schema, err := jsonschema.For[operands](nil)
	if err != nil {
		panic(fmt.Sprintf("deriving schema: %v", err))
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add",
		Description: "Add two numbers.",
		InputSchema: schema,
	}, add)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "subtract",
		Description: "Subtract the second number from the first.",
		InputSchema: schema,
	}, subtract)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "multiply",
		Description: "Multiply two numbers.",
		InputSchema: schema,
	}, multiply)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "divide",
		Description: "Divide the first number by the second.",
		InputSchema: schema,
	}, divide)

	return server
}

// number formats results the way a calculator would: integers without a
// decimal point, everything else in the shortest round-tripping form.
func number(v float64) *mcp.CallToolResult {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func add(ctx context.Context, req *mcp.CallToolRequest, in operands) (*mcp.CallToolResult, any, error) {
	return number(in.A + in.B), nil, nil
}

func subtract(ctx context.Context, req *mcp.CallToolRequest, in operands) (*mcp.CallToolResult, any, error) {
	return number(in.A - in.B), nil, nil
}

func multiply(ctx context.Context, req *mcp.CallToolRequest, in operands) (*mcp.CallToolResult, any, error) {
	return number(in.A * in.B), nil, nil
}

func divide(ctx context.Context, req *mcp.CallToolRequest, in operands) (*mcp.CallToolResult, any, error) {
	if in.B == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "division by zero"}},
			IsError: true,
		}, nil, nil
	}
	return number(in.A / in.B), nil, nil
}
