// internal/commands/chat.go
package abax

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abaxtools/abax/internal/chat"
	"github.com/abaxtools/abax/internal/tui"
)

// chatCmd answers one prompt when arguments are given, otherwise starts the
// interactive session.
var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Ask the calculator assistant a question",
	Long:  `The 'chat' command sends a question through the configured LLM, which answers using the calculator tools. With no arguments it opens an interactive session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		engine, err := chat.New(ctx, GetConfig())
		if err != nil {
			return err
		}
		defer engine.Close()

		if len(args) > 0 {
			answer, err := engine.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		}

		return tui.Start(ctx, GetConfig(), engine)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
