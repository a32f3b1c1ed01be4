package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hsinyulu/mcp-playground/internal/client"
	"github.com/hsinyulu/mcp-playground/internal/log"
)

var calcExpr string

var calcCmd = &cobra.Command{
	Use:   "calc <server>",
	Short: "Call the math server directly, no LLM in the loop",
	Long: `calc connects to a math server and evaluates expressions of the form
"<op> <a> <b>", e.g. "add 5 3". The server argument takes the same
forms as for chat: a URL or a command line to spawn.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcExpr, "expr", "e", "", "evaluate one expression and exit")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ep, err := client.ParseSpec(args[0])
	if err != nil {
		return err
	}

	logger, closeLog, err := log.NewFile(log.DefaultFile(), log.Config{Level: slog.LevelInfo})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog.Close()

	session, err := client.Dial(ctx, ep, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if calcExpr != "" {
		return evalLine(ctx, session, calcExpr, cmd.OutOrStdout())
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "math client ready; try 'add 5 3' (exit to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "calc> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(out, "operations: add, subtract, multiply, divide — e.g. 'multiply 6 7'")
			continue
		}
		if err := evalLine(ctx, session, line, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func evalLine(ctx context.Context, session *client.Session, line string, out io.Writer) error {
	op, a, b, err := parseExpr(line)
	if err != nil {
		return err
	}

	result, err := session.CallTool(ctx, op, map[string]any{"a": a, "b": b})
	if err != nil {
		return err
	}

	text := joinToolText(result)
	if result.IsError {
		return fmt.Errorf("%s", text)
	}
	fmt.Fprintln(out, text)
	return nil
}

// parseExpr splits "<op> <a> <b>" into an operation and two operands.
func parseExpr(line string) (op string, a, b float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", 0, 0, fmt.Errorf("expected '<op> <a> <b>', got %q", line)
	}

	op = strings.ToLower(fields[0])
	switch op {
	case "add", "subtract", "multiply", "divide":
	default:
		return "", 0, 0, fmt.Errorf("unknown operation %q (add, subtract, multiply, divide)", op)
	}

	a, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("operand %q is not a number", fields[1])
	}
	b, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("operand %q is not a number", fields[2])
	}
	return op, a, b, nil
}

func joinToolText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
