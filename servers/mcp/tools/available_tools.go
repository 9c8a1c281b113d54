// servers/mcp/tools/available_tools.go
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abaxtools/abax/internal/calc"
)

// AvailableToolsDefinition describes a helper tool that lists the server's tools.
func AvailableToolsDefinition() Definition {
	return Definition{
		Name:        AvailableToolsName,
		Description: "Use this tool when the user asks which calculator tools are available or requests a summary of their capabilities. Do not call any other tool while answering this question.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// AvailableTools returns the set of tools exposed by the server in both JSON
// and a prompt asking the model to summarize them.
func AvailableTools(reg *calc.Registry) Handler {
	return func(args map[string]any) ([]ContentPart, error) {
		definitions := Definitions(reg)

		payload := make([]map[string]string, 0, len(definitions))
		for _, def := range definitions {
			payload = append(payload, map[string]string{
				"name":        def.Name,
				"description": def.Description,
			})
		}

		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare available tools response")
		}

		interpretPrompt := strings.Join([]string{
			"You are a helpful assistant. Use the provided JSON to clearly list the available calculator tools and explain when each should be used.",
			"Keep the explanation concise.",
			"JSON Tool Data: " + string(jsonPayload),
		}, " ")

		return []ContentPart{
			{Type: "json", Text: string(jsonPayload)},
			{Type: "interpret", Text: interpretPrompt},
		}, nil
	}
}
