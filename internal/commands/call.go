// internal/commands/call.go
package abax

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abaxtools/abax/internal/providers/mcp"
)

// callCmd invokes one tool directly, without a model in the loop.
var callCmd = &cobra.Command{
	Use:   "call <tool> [name=value ...]",
	Short: "Invoke a calculator tool directly",
	Long:  `The 'call' command starts the calculator server and invokes a single tool with the given name=value arguments, e.g. 'abax call add a=5 b=3'.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolName := args[0]
		toolArgs, err := parseKeyValueArgs(args[1:])
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, err := mcp.New(ctx, GetConfig())
		if err != nil {
			return err
		}
		defer client.Close()

		res, err := client.CallTool(ctx, toolName, toolArgs)
		if err != nil {
			return err
		}

		success := color.New(color.FgGreen).SprintFunc()
		failure := color.New(color.FgRed).SprintFunc()

		if res.JSON != "" {
			fmt.Fprintln(cmd.OutOrStdout(), success(res.JSON))
			return nil
		}
		if res.Output != "" {
			fmt.Fprintln(cmd.OutOrStdout(), failure(res.Output))
			return fmt.Errorf("tool %s failed", toolName)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "(no output)")
		return nil
	},
}

// parseKeyValueArgs turns name=value pairs into tool arguments. Values that
// parse as numbers are sent as numbers; everything else stays a string so the
// server can report the type mismatch itself.
func parseKeyValueArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("argument %q is not in name=value form", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			args[key] = n
		} else {
			args[key] = value
		}
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(callCmd)
}
