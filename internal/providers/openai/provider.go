// internal/providers/openai/provider.go
// Package openai provides a ChatProvider backed by OpenAI-compatible
// chat-completions endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abaxtools/abax/internal/appconfig"
	"github.com/abaxtools/abax/internal/logging"
	"github.com/abaxtools/abax/internal/providers"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// maxToolRounds bounds how many times a single Complete call will go back to
// the model after executing tool calls.
const maxToolRounds = 4

// Provider implements providers.ChatProvider against a chat-completions API.
type Provider struct {
	client   *http.Client
	endpoint string
	apiKey   string
	timeout  time.Duration
	debug    bool
}

// New constructs a Provider configured with the application's LLM endpoint
// and request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client:   &http.Client{Timeout: timeout},
		endpoint: strings.TrimRight(cfg.LLMEndpoint, "/"),
		apiKey:   cfg.LLMAPIKey(),
		timeout:  timeout,
		debug:    cfg.Debug,
	}
}

// Close releases the provider's resources. The HTTP client has none.
func (p *Provider) Close() error { return nil }

// Complete runs one tool-calling conversation round trip: send the history
// plus tool schemas, execute every tool call the model requests, feed the
// results back, and return the final assistant message.
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	history := append([]providers.ChatMessage{}, req.History...)

	for round := 0; round <= maxToolRounds; round++ {
		msg, err := p.completeOnce(ctx, req.Model, history, req.Tools)
		if err != nil {
			return "", err
		}
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}
		if req.ToolExecutor == nil {
			return "", fmt.Errorf("model requested tool %q but no executor is configured", msg.ToolCalls[0].Name)
		}

		history = append(history, msg)
		for _, call := range msg.ToolCalls {
			output := p.executeToolCall(ctx, req, call)
			history = append(history, providers.ChatMessage{
				Role:       "tool",
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("model kept requesting tools after %d rounds", maxToolRounds)
}

// executeToolCall parses and validates one requested call, then runs it. A
// failure comes back as the tool output so the model can correct itself.
func (p *Provider) executeToolCall(ctx context.Context, req providers.CompletionRequest, call providers.ToolCall) string {
	args, err := parseToolArguments(call.Arguments)
	if err != nil {
		logging.LogEvent("Tool call unparseable: tool=%s err=%v", call.Name, err)
		return fmt.Sprintf("Tool error: %v", err)
	}
	if def, ok := findTool(req.Tools, call.Name); ok {
		if err := validateArgumentsAgainstTool(def, args); err != nil {
			logging.LogEvent("Tool call invalid: tool=%s err=%v", call.Name, err)
			return fmt.Sprintf("Tool error: %v", err)
		}
	}

	output, err := req.ToolExecutor(ctx, call.Name, args)
	if err != nil {
		logging.LogEvent("Tool execution failed: tool=%s err=%v", call.Name, err)
		return fmt.Sprintf("Tool error: %v", err)
	}
	return output
}

// completeOnce issues a single non-streaming chat completion request.
func (p *Provider) completeOnce(ctx context.Context, model string, history []providers.ChatMessage, tools []providers.ToolDefinition) (providers.ChatMessage, error) {
	payload := map[string]any{
		"model":    model,
		"messages": wireMessages(history),
		"stream":   false,
	}
	if len(tools) > 0 {
		payload["tools"] = wireTools(tools)
		payload["tool_choice"] = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatMessage{}, err
	}
	logging.LogRequest("ABAX->LLM", p.endpoint, model, "", body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return providers.ChatMessage{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.ChatMessage{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.ChatMessage{}, err
	}
	logging.LogRequest("LLM->ABAX", p.endpoint, model, "", respBody)

	if resp.StatusCode != http.StatusOK {
		return providers.ChatMessage{}, fmt.Errorf("llm: /chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	return parseAssistantMessage(respBody)
}

// parseAssistantMessage extracts the first choice's message, including any
// tool calls, from a chat-completions response body.
func parseAssistantMessage(body []byte) (providers.ChatMessage, error) {
	message := gjson.GetBytes(body, "choices.0.message")
	if !message.Exists() {
		return providers.ChatMessage{}, fmt.Errorf("llm response missing choices[0].message")
	}

	msg := providers.ChatMessage{
		Role:    "assistant",
		Content: message.Get("content").String(),
	}
	message.Get("tool_calls").ForEach(func(_, call gjson.Result) bool {
		msg.ToolCalls = append(msg.ToolCalls, providers.ToolCall{
			ID:        call.Get("id").String(),
			Name:      call.Get("function.name").String(),
			Arguments: call.Get("function.arguments").String(),
		})
		return true
	})
	return msg, nil
}

// parseToolArguments decodes a model-produced argument string, repairing
// malformed JSON before giving up.
func parseToolArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return nil, fmt.Errorf("tool arguments are not valid JSON: %v", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("tool arguments are not valid JSON after repair: %w", err)
	}
	return args, nil
}

// validateArgumentsAgainstTool checks if the given arguments are valid for the specified tool definition.
func validateArgumentsAgainstTool(def providers.ToolDefinition, args map[string]any) error {
	if len(def.Parameters) == 0 {
		return nil
	}
	schemaLoader := gojsonschema.NewGoLoader(def.Parameters)
	argBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal arguments for validation: %w", err)
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(argBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("arguments failed validation: %s", strings.Join(details, "; "))
}

func findTool(tools []providers.ToolDefinition, name string) (providers.ToolDefinition, bool) {
	for _, def := range tools {
		if strings.EqualFold(def.Name, name) {
			return def, true
		}
	}
	return providers.ToolDefinition{}, false
}

func wireMessages(history []providers.ChatMessage) []map[string]any {
	out := make([]map[string]any, 0, len(history))
	for _, msg := range history {
		m := map[string]any{
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.ToolCallID != "" {
			m["tool_call_id"] = msg.ToolCallID
		}
		if len(msg.ToolCalls) > 0 {
			calls := make([]map[string]any, 0, len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				calls = append(calls, map[string]any{
					"id":   call.ID,
					"type": "function",
					"function": map[string]any{
						"name":      call.Name,
						"arguments": call.Arguments,
					},
				})
			}
			m["tool_calls"] = calls
		}
		out = append(out, m)
	}
	return out
}

func wireTools(tools []providers.ToolDefinition) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, def := range tools {
		out = append(out, map[string]any{
			"type":     "function",
			"function": def,
		})
	}
	return out
}
