// internal/providers/mcp/process.go
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/abaxtools/abax/internal/appconfig"
)

// New starts the calculator server subprocess, performs the initialize
// handshake, and discovers its tools.
func New(ctx context.Context, cfg *appconfig.Config) (*Client, error) {
	binary := cfg.MCPBinaryPath()
	if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("calculator server binary not found at %s: %w", binary, err)
	}

	args := []string{}
	if cfg.ConfigPath != "" {
		args = append(args, "--config", cfg.ConfigPath)
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	c := newClient(stdout, stdin)
	c.cfg = cfg
	c.cmd = cmd
	c.stdin = stdin

	initCtx, cancel := context.WithTimeout(ctx, cfg.MCPInitTimeoutDuration())
	defer cancel()

	if err := c.initialize(initCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize %s: %w", binary, err)
	}
	if err := c.discoverTools(initCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("list tools from %s: %w", binary, err)
	}
	c.log("MCP server ready: binary=%s tools=%d", binary, len(c.toolDefs))
	return c, nil
}

func (c *Client) initialize(ctx context.Context) error {
	_, err := c.rpcCall(ctx, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "abax", "version": "0.1.0"},
	}, "")
	return err
}

// Close shuts the server down: close its stdin so the read loop sees EOF, then
// give the process a short grace period before killing it.
func (c *Client) Close() error {
	if c.cmd == nil {
		return nil
	}
	if c.stdin != nil {
		_ = c.stdin.Close()
	}

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		_ = c.cmd.Process.Kill()
		return <-done
	}
}
