package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  MCP Binary:       %s\n", cfg.MCPBinaryPath())
	fmt.Fprintf(out, "  MCP Init Timeout: %s\n", cfg.MCPInitTimeoutDuration())
	fmt.Fprintf(out, "  MCP Retries:      %d\n", cfg.MCPRetryAttempts())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Operand Limit:    %g\n", cfg.OperandBound())
	fmt.Fprintf(out, "  Exponent Limit:   %g\n", cfg.ExponentBound())

	if cfg.LLMConfigured() {
		fmt.Fprintf(out, "  LLM Endpoint:     %s\n", cfg.LLMEndpoint)
		fmt.Fprintf(out, "  LLM Model:        %s\n", cfg.LLMModel)
	} else {
		fmt.Fprintln(out, "  LLM:              not configured (direct tool mode)")
	}
}
