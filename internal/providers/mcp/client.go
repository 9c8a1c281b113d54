// internal/providers/mcp/client.go
// Package mcp spawns the calculator MCP server as a subprocess and drives it
// over stdio JSON-RPC with Content-Length framing.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/abaxtools/abax/internal/appconfig"
	"github.com/abaxtools/abax/internal/logging"
	"github.com/abaxtools/abax/internal/providers"
)

// Client is one live session against the calculator server.
type Client struct {
	cfg    *appconfig.Config
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
	writer *bufio.Writer

	seqMu sync.Mutex
	seq   int64

	rpcMu     sync.Mutex
	toolIndex map[string]providers.ToolDefinition
	toolDefs  []providers.ToolDefinition
}

func newClient(r io.Reader, w io.Writer) *Client {
	return &Client{
		reader:    bufio.NewReader(r),
		writer:    bufio.NewWriter(w),
		toolIndex: make(map[string]providers.ToolDefinition),
	}
}

func (c *Client) log(format string, args ...any) {
	logging.LogEvent(format, args...)
}

func (c *Client) nextID() int64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.seq++
	return c.seq
}

// serverLabel identifies the server end in log lines.
func (c *Client) serverLabel() string {
	if c.cfg != nil {
		if b := strings.TrimSpace(c.cfg.MCPBinary); b != "" {
			return b
		}
	}
	return "local-mcp"
}

// Tools returns the definitions discovered at startup.
func (c *Client) Tools() []providers.ToolDefinition {
	return append([]providers.ToolDefinition(nil), c.toolDefs...)
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}
