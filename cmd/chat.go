package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hsinyulu/mcp-playground/internal/chat"
	"github.com/hsinyulu/mcp-playground/internal/client"
	"github.com/hsinyulu/mcp-playground/internal/config"
	"github.com/hsinyulu/mcp-playground/internal/llm"
	"github.com/hsinyulu/mcp-playground/internal/log"
	"github.com/hsinyulu/mcp-playground/internal/ui"
)

var (
	chatQuery   string
	chatServers string
)

var chatCmd = &cobra.Command{
	Use:   "chat [server]",
	Short: "Chat with an LLM that can call MCP server tools",
	Long: `chat connects to one or more MCP servers, hands their tools to the
model, and runs a conversation loop.

The server argument is either a command line to spawn a stdio server
("mcplab knowledge", "python3 server.py") or a URL for a remote one
(http://host:8000 for SSE, http+stream://host:8000 for streamable HTTP).
Alternatively --servers names a JSON file with an "mcpServers" map, and
every server in it is connected at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatQuery, "query", "q", "", "run one query and exit instead of the interactive loop")
	chatCmd.Flags().StringVar(&chatServers, "servers", "", "path to a JSON file describing servers to connect")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout belongs to the conversation, so logs go to a file.
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = log.DefaultFile()
	}
	logger, closeLog, err := log.NewFile(logPath, log.Config{Level: slog.LevelInfo})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog.Close()

	endpoints, err := chatEndpoints(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		return err
	}

	group, err := client.DialAll(ctx, endpoints, logger)
	if err != nil {
		return err
	}
	defer group.Close()

	console := ui.NewConsole(os.Stdout)
	session := chat.New(gen, group, console, logger, cfg.MaxTurns)

	if chatQuery != "" {
		return session.Ask(ctx, chatQuery)
	}

	// Failing to open the history file costs only the record, not the
	// session.
	if cfg.HistoryFile != "" {
		if history, err := openHistory(cfg.HistoryFile); err != nil {
			logger.Warn("history disabled", "path", cfg.HistoryFile, "error", err)
		} else {
			defer history.Close()
			session.RecordHistory(history)
		}
	}

	return session.Run(ctx, os.Stdin)
}

func openHistory(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

// chatEndpoints resolves where to connect: a servers file, a single
// spec from the command line, or servers from the main config.
func chatEndpoints(cfg *config.Config, args []string) ([]client.Endpoint, error) {
	if chatServers != "" {
		servers, err := config.LoadServers(chatServers)
		if err != nil {
			return nil, err
		}
		endpoints := make([]client.Endpoint, 0, len(servers))
		for name, sc := range servers {
			ep, err := client.FromConfig(name, sc)
			if err != nil {
				return nil, err
			}
			endpoints = append(endpoints, ep)
		}
		return endpoints, nil
	}

	if len(args) == 1 {
		ep, err := client.ParseSpec(args[0])
		if err != nil {
			return nil, err
		}
		return []client.Endpoint{ep}, nil
	}

	if len(cfg.Servers) > 0 {
		endpoints := make([]client.Endpoint, 0, len(cfg.Servers))
		for name, sc := range cfg.Servers {
			ep, err := client.FromConfig(name, sc)
			if err != nil {
				return nil, err
			}
			endpoints = append(endpoints, ep)
		}
		return endpoints, nil
	}

	return nil, errors.New("no server given: pass a server argument, --servers, or configure servers in config.yaml")
}
