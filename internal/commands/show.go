// internal/commands/show.go
package abax

import (
	"github.com/spf13/cobra"
)

// showCmd groups the informational subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application information",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
