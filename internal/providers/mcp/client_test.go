package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/abaxtools/abax/internal/providers"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)

	if err := writeFrame(bufio.NewWriter(&buf), payload); err != nil {
		t.Fatalf("writeFrame error: %v", err)
	}
	got, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %s", got)
	}
}

func TestReadFrameMissingContentLength(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString("X-Other: 1\r\n\r\n{}"))
	if _, err := readFrame(r); err == nil {
		t.Fatal("expected error for missing Content-Length")
	}
}

// fakeServer answers each incoming frame with the next canned result, in
// order. It runs until its read side closes.
func fakeServer(t *testing.T, r io.Reader, w io.Writer, results []any) {
	t.Helper()
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	go func() {
		for _, result := range results {
			raw, err := readFrame(reader)
			if err != nil {
				return
			}
			var req struct {
				ID any `json:"id"`
			}
			_ = json.Unmarshal(raw, &req)
			data, _ := json.Marshal(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
			if err := writeFrame(writer, data); err != nil {
				return
			}
		}
	}()
}

// pipeClient wires a Client to an in-process fake server over pipes.
func pipeClient(t *testing.T, results []any) *Client {
	t.Helper()
	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()
	t.Cleanup(func() {
		clientIn.Close()
		serverIn.Close()
	})
	fakeServer(t, serverIn, serverOut, results)
	return newClient(clientIn, clientOut)
}

func TestRPCCallReturnsResult(t *testing.T) {
	c := pipeClient(t, []any{map[string]any{"ok": true}})

	resp, err := c.rpcCall(context.Background(), "ping", nil, "")
	if err != nil {
		t.Fatalf("rpcCall error: %v", err)
	}
	var result map[string]bool
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result["ok"] {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestRPCCallServerError(t *testing.T) {
	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()
	t.Cleanup(func() {
		clientIn.Close()
		serverIn.Close()
	})

	go func() {
		reader := bufio.NewReader(serverIn)
		writer := bufio.NewWriter(serverOut)
		if _, err := readFrame(reader); err != nil {
			return
		}
		_ = writeFrame(writer, []byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found: nope"}}`))
	}()

	c := newClient(clientIn, clientOut)
	if _, err := c.rpcCall(context.Background(), "nope", nil, ""); err == nil {
		t.Fatal("expected error from error response")
	}
}

func TestRPCCallContextCancelled(t *testing.T) {
	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()
	t.Cleanup(func() {
		clientIn.Close()
		serverIn.Close()
		serverOut.Close()
	})

	// Accept the request but never answer it.
	go io.Copy(io.Discard, serverIn)

	c := newClient(clientIn, clientOut)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.rpcCall(ctx, "ping", nil, "")
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rpcCall did not honor context cancellation")
	}
}

func TestDiscoverTools(t *testing.T) {
	c := pipeClient(t, []any{map[string]any{
		"tools": []map[string]any{
			{
				"name":        "add",
				"description": "Add two numbers.",
				"parameters": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"a": map[string]any{"type": "number"},
						"b": map[string]any{"type": "number"},
					},
					"required": []any{"a", "b"},
				},
			},
			{"name": "available_tools", "description": "List tools."},
		},
	}})

	if err := c.discoverTools(context.Background()); err != nil {
		t.Fatalf("discoverTools error: %v", err)
	}
	defs := c.Tools()
	if len(defs) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(defs))
	}
	if defs[0].Name != "add" || defs[0].Parameters["type"] != "object" {
		t.Fatalf("unexpected first tool: %+v", defs[0])
	}
	if _, ok := c.toolIndex["available_tools"]; !ok {
		t.Fatal("available_tools missing from index")
	}
}

func TestDiscoverToolsEmpty(t *testing.T) {
	c := pipeClient(t, []any{map[string]any{"tools": []any{}}})
	if err := c.discoverTools(context.Background()); err == nil {
		t.Fatal("expected error for empty tool list")
	}
}

func TestCallToolParsesContent(t *testing.T) {
	c := pipeClient(t, []any{map[string]any{
		"content": []map[string]any{
			{"type": "json", "text": `{"operation":"add","result":8}`},
			{"type": "interpret", "text": "Explain this result."},
		},
	}})
	c.toolIndex["add"] = providers.ToolDefinition{Name: "add"}

	res, err := c.CallTool(context.Background(), "add", map[string]any{"a": 5, "b": 3})
	if err != nil {
		t.Fatalf("CallTool error: %v", err)
	}
	if res.JSON == "" || res.Interpret == "" {
		t.Fatalf("expected json and interpret parts: %+v", res)
	}
	if res.Retry {
		t.Fatal("unexpected retry flag")
	}
}

func TestCallToolUnknown(t *testing.T) {
	c := pipeClient(t, nil)
	if _, err := c.CallTool(context.Background(), "nope", nil); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestParseContentRetryAndLogs(t *testing.T) {
	result, _ := json.Marshal(map[string]any{
		"content": []map[string]any{
			{"type": "log", "text": "attempt 1/2 failed: missing parameter"},
			{"type": "meta", "text": "retry"},
			{"type": "text", "text": "Tool error: missing required parameter \"b\""},
		},
	})

	res := parseContent(result)
	if !res.Retry {
		t.Fatal("expected retry flag")
	}
	if len(res.Logs) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(res.Logs))
	}
	if res.Output == "" {
		t.Fatal("expected text output")
	}
}
