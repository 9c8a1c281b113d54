// internal/providers/provider.go

// Package providers defines the interfaces for talking to a language model
// endpoint. It provides a common abstraction for sending a conversation with
// tool schemas attached and executing the tool calls the model requests.
package providers

import "context"

// ChatMessage represents a single message in a chat conversation. ToolCallID
// links a tool-role message back to the call that produced it.
type ChatMessage struct {
	Role       string
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolCall is one tool invocation requested by the model. Arguments is the
// raw JSON object string exactly as the model produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDefinition defines the structure of a tool that can be invoked by a provider.
// It includes the tool's name, a description of its purpose, and a schema for its parameters.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolExecutor is a function type for executing a tool.
// It takes the tool's name and arguments and returns the result as a string.
type ToolExecutor func(ctx context.Context, name string, args map[string]any) (string, error)

// CompletionRequest encapsulates one non-streaming chat completion: the
// conversation so far, the tools the model may call, and the executor that
// resolves those calls.
type CompletionRequest struct {
	Model        string
	History      []ChatMessage
	Tools        []ToolDefinition
	ToolExecutor ToolExecutor
}

// ChatProvider is the interface a model backend must implement.
type ChatProvider interface {
	// Complete runs one completion, resolving any tool calls through the
	// request's executor, and returns the final assistant message.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Close cleans up any resources used by the provider.
	Close() error
}
