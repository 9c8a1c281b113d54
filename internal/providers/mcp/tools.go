// internal/providers/mcp/tools.go
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/abaxtools/abax/internal/providers"
	"github.com/tidwall/gjson"
)

// Meta-arguments the server strips before dispatch. They carry the attempt
// number and the user's original prompt for the retry envelope.
const (
	AttemptArg    = "__attempt"
	UserPromptArg = "__user_prompt"
)

// CallResult is one tool invocation's parsed content. Output is the
// human-facing text, JSON the structured payload when the tool emitted one,
// Interpret the server's interpretation prompt, and Retry whether the server
// asked the caller to try again with corrected arguments.
type CallResult struct {
	Output    string
	JSON      string
	Interpret string
	Logs      []string
	Retry     bool
}

// discoverTools lists the server's tools and caches their definitions.
func (c *Client) discoverTools(ctx context.Context) error {
	resp, err := c.rpcCall(ctx, "tools/list", nil, "")
	if err != nil {
		return err
	}

	c.toolDefs = c.toolDefs[:0]
	gjson.GetBytes(resp.Result, "tools").ForEach(func(_, tool gjson.Result) bool {
		def := providers.ToolDefinition{
			Name:        tool.Get("name").String(),
			Description: tool.Get("description").String(),
		}
		if params := tool.Get("parameters"); params.Exists() {
			if m, ok := params.Value().(map[string]any); ok {
				def.Parameters = m
			}
		}
		c.toolDefs = append(c.toolDefs, def)
		c.toolIndex[def.Name] = def
		return true
	})

	if len(c.toolDefs) == 0 {
		return fmt.Errorf("server advertised no tools")
	}
	return nil
}

// CallTool invokes one tool and parses the content parts the server returns.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (CallResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	if _, ok := c.toolIndex[name]; !ok {
		return CallResult{}, fmt.Errorf("unknown tool %q", name)
	}
	c.log("Calling tool: name=%s args=%s", name, formatArgs(args))

	resp, err := c.rpcCall(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": args,
	}, name)
	if err != nil {
		return CallResult{}, err
	}

	return parseContent(resp.Result), nil
}

// parseContent folds the server's content parts into a CallResult. Text parts
// accumulate into Output; json, interpret, log, and meta parts land in their
// dedicated fields.
func parseContent(result []byte) CallResult {
	var out CallResult
	var text []string

	gjson.GetBytes(result, "content").ForEach(func(_, part gjson.Result) bool {
		body := part.Get("text").String()
		switch part.Get("type").String() {
		case "json":
			out.JSON = body
		case "interpret":
			out.Interpret = body
		case "log":
			out.Logs = append(out.Logs, body)
		case "meta":
			if body == "retry" {
				out.Retry = true
			}
		default:
			text = append(text, body)
		}
		return true
	})

	out.Output = strings.Join(text, "\n")
	return out
}
