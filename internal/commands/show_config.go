// internal/commands/show_config.go
package abax

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abaxtools/abax/internal/appconfig"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:          viper.GetBool("debug"),
			MCPBinary:      viper.GetString("mcpBinary"),
			MCPInitTimeout: viper.GetInt("mcpInitTimeout"),
			MCPRetryCount:  viper.GetInt("mcpRetryCount"),
			TimeoutSeconds: viper.GetInt("timeout"),
			LogFile:        viper.GetString("logFile"),
			LLMEndpoint:    viper.GetString("llmEndpoint"),
			LLMModel:       viper.GetString("llmModel"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)
		if DebugEnabled() {
			pp.Println(GetConfig())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
