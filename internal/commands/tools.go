// internal/commands/tools.go
package abax

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/abaxtools/abax/internal/providers/mcp"
	"github.com/abaxtools/abax/internal/util"
)

// toolsCmd lists the tools the calculator server exposes.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the calculator server's tools",
	Long:  `The 'tools' command starts the calculator server, asks it for its tool definitions, and prints them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, err := mcp.New(ctx, GetConfig())
		if err != nil {
			return err
		}
		defer client.Close()

		name := color.New(color.FgCyan, color.Bold).SprintFunc()
		for _, def := range client.Tools() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name(def.Name), util.TruncateToWidth(def.Description, 100))
			if DebugEnabled() {
				pp.Println(def.Parameters)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
