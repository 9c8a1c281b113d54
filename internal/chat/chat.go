// internal/chat/chat.go
// Package chat orchestrates one conversation turn: it hands the calculator
// tool schemas to the model, executes the calls the model requests against
// the local server, and returns the model's final answer.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/abaxtools/abax/internal/appconfig"
	"github.com/abaxtools/abax/internal/logging"
	"github.com/abaxtools/abax/internal/providers"
	"github.com/abaxtools/abax/internal/providers/mcp"
	"github.com/abaxtools/abax/internal/providers/openai"
)

const systemPrompt = "You are a precise calculator assistant. Use the provided " +
	"tools for every arithmetic question instead of computing answers yourself. " +
	"Call available_tools when the user asks what you can do. Report tool errors " +
	"to the user plainly."

// toolCaller is the slice of the server client the engine needs.
type toolCaller interface {
	Tools() []providers.ToolDefinition
	CallTool(ctx context.Context, name string, args map[string]any) (mcp.CallResult, error)
	Close() error
}

// Engine binds a running calculator server to a chat provider.
type Engine struct {
	cfg      *appconfig.Config
	client   toolCaller
	provider providers.ChatProvider
}

// New spawns the calculator server and, when an endpoint is configured, the
// model provider. An engine without a provider still answers via Fallback.
func New(ctx context.Context, cfg *appconfig.Config) (*Engine, error) {
	client, err := mcp.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, client: client}
	if cfg.LLMConfigured() {
		e.provider = openai.New(cfg)
	}
	return e, nil
}

// Close shuts down the provider and the server subprocess.
func (e *Engine) Close() error {
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			logging.LogEvent("provider shutdown error: %v", err)
		}
	}
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Tools returns the calculator tools discovered at startup.
func (e *Engine) Tools() []providers.ToolDefinition {
	return e.client.Tools()
}

// Ask answers one user prompt. Without a configured model endpoint it degrades
// to Fallback instead of failing.
func (e *Engine) Ask(ctx context.Context, prompt string) (string, error) {
	if e.provider == nil {
		return e.Fallback(), nil
	}

	req := providers.CompletionRequest{
		Model: e.cfg.LLMModel,
		History: []providers.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Tools:        e.client.Tools(),
		ToolExecutor: e.executor(prompt),
	}
	return e.provider.Complete(ctx, req)
}

// executor resolves the model's tool calls against the server. Each call
// carries the attempt number and the original prompt so the server can build
// its retry guidance; a retry response goes back to the model as tool output
// so the model corrects its arguments on the next round.
func (e *Engine) executor(prompt string) providers.ToolExecutor {
	attempts := map[string]int{}
	return func(ctx context.Context, name string, args map[string]any) (string, error) {
		attempts[name]++

		callArgs := make(map[string]any, len(args)+2)
		for k, v := range args {
			callArgs[k] = v
		}
		callArgs[mcp.AttemptArg] = attempts[name]
		callArgs[mcp.UserPromptArg] = prompt

		res, err := e.client.CallTool(ctx, name, callArgs)
		if err != nil {
			return "", err
		}
		for _, line := range res.Logs {
			logging.LogEvent("tool %s: %s", name, line)
		}
		if res.Retry {
			logging.LogEvent("tool %s requested retry on attempt %d", name, attempts[name])
		}
		if res.JSON != "" {
			return res.JSON, nil
		}
		return res.Output, nil
	}
}

// Fallback describes the available tools when no model endpoint is configured.
func (e *Engine) Fallback() string {
	var b strings.Builder
	b.WriteString("No LLM endpoint is configured, so I cannot interpret free-form questions.\n")
	b.WriteString("These calculator tools are available:\n")
	for _, def := range e.client.Tools() {
		if def.Description != "" {
			fmt.Fprintf(&b, "  %s: %s\n", def.Name, def.Description)
		} else {
			fmt.Fprintf(&b, "  %s\n", def.Name)
		}
	}
	b.WriteString("Invoke them directly with: abax call <tool> a=<number> b=<number>")
	return b.String()
}
