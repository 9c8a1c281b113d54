// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for LLM HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultMCPInitTimeout defines the fallback timeout used while initializing the MCP server.
	defaultMCPInitTimeout = 10 * time.Second
	// defaultMCPRetryCount defines how many times tool calls are retried when the config omits the value.
	defaultMCPRetryCount = 1
	// defaultOperandLimit bounds the magnitude of general operands.
	defaultOperandLimit = 1e308
	// defaultExponentLimit bounds the magnitude of the power exponent.
	defaultExponentLimit = 1000
	// defaultAPIKeyEnv names the environment variable holding the LLM API key.
	defaultAPIKeyEnv = "OPENAI_API_KEY"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool    `json:"debug"`
	MCPBinary      string  `json:"mcpBinary,omitempty"`
	MCPInitTimeout int     `json:"mcpInitTimeout,omitempty"`
	MCPRetryCount  int     `json:"mcpRetryCount,omitempty"`
	TimeoutSeconds int     `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile        string  `json:"logFile,omitempty"`
	LLMEndpoint    string  `json:"llmEndpoint,omitempty"`
	LLMModel       string  `json:"llmModel,omitempty"`
	LLMAPIKeyEnv   string  `json:"llmApiKeyEnv,omitempty"`
	OperandLimit   float64 `json:"operandLimit,omitempty"`
	ExponentLimit  float64 `json:"exponentLimit,omitempty"`
	ConfigPath     string  `json:"-"`
}

// RequestTimeout returns the timeout duration for LLM HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MCPInitTimeoutDuration returns the timeout duration for MCP initialization.
func (c Config) MCPInitTimeoutDuration() time.Duration {
	if c.MCPInitTimeout <= 0 {
		return defaultMCPInitTimeout
	}
	return time.Duration(c.MCPInitTimeout) * time.Second
}

// MCPRetryAttempts returns the configured number of retry attempts for tool calls.
func (c Config) MCPRetryAttempts() int {
	if c.MCPRetryCount < 0 {
		return 0
	}
	if c.MCPRetryCount == 0 {
		return defaultMCPRetryCount
	}
	return c.MCPRetryCount
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "abax.log"
}

// MCPBinaryPath returns the resolved calculator server binary path, choosing a default based on the OS if not provided.
func (c Config) MCPBinaryPath() string {
	if b := strings.TrimSpace(c.MCPBinary); b != "" {
		return b
	}
	switch runtime.GOOS {
	case "windows":
		return "dist/abax-mcp_windows_amd64_v1/abax-mcp.exe"
	case "linux":
		return "dist/abax-mcp_linux_amd64_v1/abax-mcp"
	default:
		return "dist/abax-mcp"
	}
}

// OperandBound returns the configured operand magnitude limit.
func (c Config) OperandBound() float64 {
	if c.OperandLimit <= 0 {
		return defaultOperandLimit
	}
	return c.OperandLimit
}

// ExponentBound returns the configured exponent magnitude limit.
func (c Config) ExponentBound() float64 {
	if c.ExponentLimit <= 0 {
		return defaultExponentLimit
	}
	return c.ExponentLimit
}

// LLMAPIKey resolves the LLM API key from the configured environment variable.
func (c Config) LLMAPIKey() string {
	env := strings.TrimSpace(c.LLMAPIKeyEnv)
	if env == "" {
		env = defaultAPIKeyEnv
	}
	return os.Getenv(env)
}

// LLMConfigured reports whether the orchestrator has everything it needs to
// reach a model endpoint.
func (c Config) LLMConfigured() bool {
	return strings.TrimSpace(c.LLMEndpoint) != "" &&
		strings.TrimSpace(c.LLMModel) != "" &&
		c.LLMAPIKey() != ""
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
