package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hsinyulu/mcp-playground/internal/config"
	"github.com/hsinyulu/mcp-playground/internal/httpserve"
	"github.com/hsinyulu/mcp-playground/internal/knowledge"
	"github.com/hsinyulu/mcp-playground/internal/log"
)

var (
	knowledgeListen  string
	knowledgeDataDir string
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Run the knowledge assistant MCP server",
	Long: `knowledge serves notes, generated documents, resources, and prompt
templates over MCP. Without --listen it speaks stdio, for use as a
subprocess of an MCP client; with --listen it serves SSE and
streamable HTTP.`,
	RunE: runKnowledge,
}

func init() {
	knowledgeCmd.Flags().StringVarP(&knowledgeListen, "listen", "l", "", "HTTP listen address (empty means stdio)")
	knowledgeCmd.Flags().StringVarP(&knowledgeDataDir, "data-dir", "d", "", "data directory (default from config)")
	rootCmd.AddCommand(knowledgeCmd)
}

func runKnowledge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir := knowledgeDataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	store, err := knowledge.NewStore(dataDir)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if knowledgeListen != "" {
		logger := log.New(log.Config{Level: slog.LevelInfo})
		return httpserve.Serve(ctx, knowledgeListen, func(*http.Request) *mcp.Server {
			return knowledge.NewServer(store, logger)
		}, logger)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger := log.NewWithWriter(os.Stderr, log.Config{Level: slog.LevelInfo})
	logger.Info("serving over stdio", "data_dir", dataDir)
	if err := knowledge.NewServer(store, logger).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
