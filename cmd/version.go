package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsinyulu/mcp-playground/internal/config"
)

// Version information, injected at build time via ldflags.
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mcplab %s\n", AppVersion)
	fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  Model: %s\n", cfg.ModelName)
	fmt.Fprintf(out, "  Temperature: %.2f\n", cfg.Temperature)
	fmt.Fprintf(out, "  Max tokens: %d\n", cfg.MaxTokens)
	fmt.Fprintf(out, "  Max tool turns: %d\n", cfg.MaxTurns)
	fmt.Fprintf(out, "  Data dir: %s\n", cfg.DataDir)

	if key := cfg.GeminiAPIKey; len(key) >= 8 {
		fmt.Fprintf(out, "  Gemini API key: %s...%s (configured)\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Fprintln(out, "  Gemini API key: (configured)")
	} else {
		fmt.Fprintln(out, "  Gemini API key: not set (chat will not work)")
	}
	return nil
}
