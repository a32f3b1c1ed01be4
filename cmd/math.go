package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hsinyulu/mcp-playground/internal/arith"
	"github.com/hsinyulu/mcp-playground/internal/httpserve"
	"github.com/hsinyulu/mcp-playground/internal/log"
)

var (
	mathListen string
	mathStdio  bool
)

var mathCmd = &cobra.Command{
	Use:   "math",
	Short: "Run the arithmetic MCP server",
	RunE:  runMath,
}

func init() {
	mathCmd.Flags().StringVarP(&mathListen, "listen", "l", "localhost:8000", "HTTP listen address")
	mathCmd.Flags().BoolVar(&mathStdio, "stdio", false, "serve over stdio instead of HTTP")
	rootCmd.AddCommand(mathCmd)
}

func runMath(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if mathStdio {
		logger := log.NewWithWriter(os.Stderr, log.Config{Level: slog.LevelInfo})
		logger.Info("serving over stdio")
		if err := arith.NewServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	}

	logger := log.New(log.Config{Level: slog.LevelInfo})
	return httpserve.Serve(ctx, mathListen, func(*http.Request) *mcp.Server {
		return arith.NewServer()
	}, logger)
}
