// servers/mcp/main.go
// Calculator MCP server over stdio (JSON-RPC 2.0 + Content-Length framing)
// Tools: available_tools, add, multiply, subtract, divide, power
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/abaxtools/abax/internal/appconfig"
	"github.com/abaxtools/abax/internal/calc"
	"github.com/abaxtools/abax/servers/mcp/tools"
)

var (
	configPath string
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to the config file")
}

// --- Protocol data types ---

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type jsonrpcResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id,omitempty"`
	Result  any           `json:"result,omitempty"`
	Error   *jsonrpcError `json:"error,omitempty"`
}

// tools/call params
type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// --- Framing Helpers ---

// errMalformedBody marks a frame whose body was read in full but did not
// decode. The stream is still in sync afterward, so the loop can answer with
// a parse error and keep reading.
var errMalformedBody = errors.New("malformed request body")

func writeMessage(w *bufio.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

func readMessage(r *bufio.Reader) (*jsonrpcRequest, error) {
	// Read headers until blank line
	headers := map[string]string{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
		s := line
		if s == "\r\n" || s == "\n" {
			break
		}
		// Accumulate headers (allow LF-only too)
		s = strings.TrimRight(s, "\r\n")
		if s == "" {
			break
		}
		if i := strings.IndexByte(s, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(s[:i]))
			val := strings.TrimSpace(s[i+1:])
			headers[key] = val
		}
	}
	clStr, ok := headers["content-length"]
	if !ok {
		return nil, fmt.Errorf("missing Content-Length")
	}
	var length int
	if _, err := fmt.Sscanf(clStr, "%d", &length); err != nil {
		return nil, fmt.Errorf("invalid Content-Length: %v", err)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	var req jsonrpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return &req, nil
}

// --- RPC Helpers ---

func makeResult(id any, result any) jsonrpcResponse {
	return jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func makeError(id any, code int, msg string) jsonrpcResponse {
	return jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: &jsonrpcError{Code: code, Message: msg}}
}

// --- Server State ---

// server holds the immutable operation registry, the session loop, and the
// handler table built once at startup.
type server struct {
	registry   *calc.Registry
	handlers   map[string]tools.Handler
	retryCount int
}

func newServer(cfg appconfig.Config) *server {
	registry := calc.NewRegistry(cfg.OperandBound(), cfg.ExponentBound())
	// Protocol frames own stdout; per-call records go to stderr.
	session := calc.NewSession(registry, log.New(os.Stderr, "abax-mcp ", log.LstdFlags))

	handlers := map[string]tools.Handler{
		tools.AvailableToolsName: tools.AvailableTools(registry),
	}
	for _, op := range registry.Operations() {
		handlers[op.Name] = tools.OperationHandler(session, op)
	}

	return &server{
		registry:   registry,
		handlers:   handlers,
		retryCount: cfg.MCPRetryAttempts(),
	}
}

// --- Tool Implementation Wrapper ---

func (s *server) runTool(name string, args map[string]any) []tools.ContentPart {
	handler, ok := s.handlers[name]
	if !ok {
		return []tools.ContentPart{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", name)}}
	}
	return s.invokeWithRetries(name, handler, args)
}

func attemptFromArgs(args map[string]any) int {
	if args == nil {
		return 1
	}
	if v, ok := args[tools.AttemptArg]; ok {
		switch val := v.(type) {
		case int:
			if val > 0 {
				return val
			}
		case int64:
			if val > 0 {
				return int(val)
			}
		case float64:
			if n := int(val); n > 0 {
				return n
			}
		case string:
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

func promptFromArgs(args map[string]any) string {
	if args == nil {
		return ""
	}
	if v, ok := args[tools.UserPromptArg]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (s *server) invokeWithRetries(toolName string, handler tools.Handler, args map[string]any) []tools.ContentPart {
	attempt := attemptFromArgs(args)
	prompt := promptFromArgs(args)
	content, err := handler(args)
	if err == nil {
		return content
	}

	maxRetries := s.retryCount
	logs := []tools.ContentPart{{Type: "log", Text: fmt.Sprintf("attempt %d/%d failed: %v", attempt, maxRetries, err)}}

	if attempt < maxRetries && prompt != "" {
		message := fmt.Sprintf("Tool error: %v\nOriginal request: %s\nEnsure that you provide the arguments to satisfy the tool requirements before trying again.", err, prompt)
		logs = append(logs, tools.ContentPart{Type: "meta", Text: "retry"})
		logs = append(logs, tools.ContentPart{Type: "text", Text: message})
		return logs
	}

	logs = append(logs, tools.ContentPart{Type: "log", Text: fmt.Sprintf("giving up after %d attempts: %v", attempt, err)})
	logs = append(logs, tools.ContentPart{Type: "text", Text: fmt.Sprintf("Tool error: %v", err)})
	return logs
}

// --- MCP Request Handler ---

func (s *server) handleRequest(req *jsonrpcRequest, w *bufio.Writer) error {
	switch req.Method {
	case "initialize":
		result := map[string]any{
			"serverInfo":   map[string]any{"name": "abax-mcp", "version": "0.1.0"},
			"capabilities": map[string]any{"tools": map[string]any{"list": true, "call": true}},
		}
		return writeMessage(w, makeResult(req.ID, result))

	case "ping":
		return writeMessage(w, makeResult(req.ID, map[string]any{}))

	case "tools/list":
		result := map[string]any{"tools": tools.Definitions(s.registry)}
		return writeMessage(w, makeResult(req.ID, result))

	case "tools/call":
		var p toolsCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return writeMessage(w, makeError(req.ID, -32602, "Invalid params"))
			}
		}
		if p.Arguments == nil {
			p.Arguments = map[string]any{}
		}
		content := s.runTool(p.Name, p.Arguments)
		result := map[string]any{"content": content}
		return writeMessage(w, makeResult(req.ID, result))
	}

	return writeMessage(w, makeError(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method)))
}

// --- Main Server Loop ---

// serve reads framed requests until EOF or a framing desync. A body that read
// in full but failed to decode gets a parse-error frame and the loop keeps
// going.
func (s *server) serve(r *bufio.Reader, w *bufio.Writer) {
	for {
		req, err := readMessage(r)
		if err != nil {
			if err == io.EOF {
				return
			}
			if errors.Is(err, errMalformedBody) {
				_ = writeMessage(w, makeError(nil, -32700, "Parse error"))
				continue
			}
			// Headers are unreadable; the stream position is unknown.
			// Best-effort error frame without id, then stop.
			_ = writeMessage(w, jsonrpcResponse{JSONRPC: "2.0", Error: &jsonrpcError{Code: -32000, Message: err.Error()}})
			return
		}
		if req == nil {
			return
		}
		if err := s.handleRequest(req, w); err != nil {
			_ = writeMessage(w, makeError(req.ID, -32000, err.Error()))
			// Do not exit; continue processing
		}
	}
}

func main() {
	flag.Parse()
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		// Bounds and retries fall back to defaults when no config is present.
		cfg = appconfig.Config{}
	}
	srv := newServer(cfg)

	srv.serve(bufio.NewReader(os.Stdin), bufio.NewWriter(os.Stdout))
}
