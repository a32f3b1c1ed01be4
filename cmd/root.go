// Package cmd wires the mcplab subcommands: LLM-driven MCP clients and
// small demo servers.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcplab",
	Short: "mcplab - MCP clients and demo servers",
	Long: `mcplab bundles a set of Model Context Protocol examples:

  chat       an LLM-driven client that discovers and calls server tools
  calc       a plain client for the math server (no LLM involved)
  knowledge  a notes-and-documents server (tools, resources, prompts)
  math       a four-function arithmetic server

Servers speak stdio for local subprocess use and SSE/streamable HTTP
when given a listen address.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// signalContext is the base context for every subcommand: cancelled on
// SIGINT or SIGTERM so servers shut down cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
