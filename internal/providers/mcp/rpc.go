// internal/providers/mcp/rpc.go
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abaxtools/abax/internal/logging"
)

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeFrame writes one Content-Length framed payload.
func writeFrame(w *bufio.Writer, data []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

// readFrame reads one Content-Length framed payload.
func readFrame(r *bufio.Reader) ([]byte, error) {
	headers := make(map[string]string)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			headers[strings.ToLower(strings.TrimSpace(line[:idx]))] = strings.TrimSpace(line[idx+1:])
		}
	}

	cl, ok := headers["content-length"]
	if !ok {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	var length int
	if _, err := fmt.Sscanf(cl, "%d", &length); err != nil {
		return nil, fmt.Errorf("invalid Content-Length: %w", err)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// readResponse reads one response frame, honoring context cancellation while
// the blocking read runs in the background.
func (c *Client) readResponse(ctx context.Context) (jsonrpcResponse, []byte, error) {
	type result struct {
		raw []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := readFrame(c.reader)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return jsonrpcResponse{}, nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return jsonrpcResponse{}, nil, res.err
		}
		var resp jsonrpcResponse
		if err := json.Unmarshal(res.raw, &resp); err != nil {
			return jsonrpcResponse{}, res.raw, err
		}
		return resp, res.raw, nil
	}
}

// rpcCall issues one request and waits for its response. Calls are serialized:
// the server answers in order on a single stream.
func (c *Client) rpcCall(ctx context.Context, method string, params map[string]any, tool string) (jsonrpcResponse, error) {
	c.rpcMu.Lock()
	defer c.rpcMu.Unlock()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID(),
		"method":  method,
	}
	if params != nil {
		payload["params"] = params
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return jsonrpcResponse{}, err
	}
	if tool == "" {
		tool = method
	}
	logging.LogRequest("ABAX->MCP", c.serverLabel(), "", tool, data)

	if err := writeFrame(c.writer, data); err != nil {
		return jsonrpcResponse{}, err
	}

	resp, raw, err := c.readResponse(ctx)
	if err != nil {
		return jsonrpcResponse{}, err
	}
	logging.LogRequest("MCP->ABAX", c.serverLabel(), "", tool, raw)

	if resp.Error != nil {
		return jsonrpcResponse{}, fmt.Errorf("%s", resp.Error.Message)
	}
	return resp, nil
}
