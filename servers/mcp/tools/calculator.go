// servers/mcp/tools/calculator.go
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abaxtools/abax/internal/calc"
	"github.com/xeipuuv/gojsonschema"
)

// OperationDefinition describes one arithmetic operation for discovery by the
// MCP host.
func OperationDefinition(op calc.Operation) Definition {
	return Definition{
		Name:        op.Name,
		Description: op.Description,
		Parameters:  op.Schema(),
	}
}

// OperationTool returns the complete, wrapped tool definition.
func OperationTool(op calc.Operation) Tool {
	return Tool{
		Type:     "function",
		Function: OperationDefinition(op),
	}
}

// Definitions lists every tool the server exposes: the five operations plus
// the available-tools helper.
func Definitions(reg *calc.Registry) []Definition {
	ops := reg.Operations()
	defs := make([]Definition, 0, len(ops)+1)
	defs = append(defs, AvailableToolsDefinition())
	for _, op := range ops {
		defs = append(defs, OperationDefinition(op))
	}
	return defs
}

// ValidateToolArguments checks an argument mapping against a definition's
// JSON schema before the semantic validator runs.
func ValidateToolArguments(def Definition, args map[string]any) error {
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

// OperationHandler bridges one operation to the session loop: strip the retry
// meta-arguments, gate on the JSON schema, dispatch, and wrap the result as
// content for the LLM.
func OperationHandler(sess *calc.Session, op calc.Operation) Handler {
	def := OperationDefinition(op)
	return func(args map[string]any) ([]ContentPart, error) {
		callArgs := stripMetaArgs(args)
		if err := ValidateToolArguments(def, callArgs); err != nil {
			return nil, err
		}

		res := sess.Handle(calc.Request{Operation: op.Name, Arguments: callArgs})
		if res.Err != nil {
			return nil, res.Err
		}

		payload := map[string]any{
			"operation": op.Name,
			"arguments": callArgs,
			"result":    res.Value,
			"display":   calc.FormatValue(res.Value),
		}
		jsonResult, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error preparing %s response: %w", op.Name, err)
		}

		interpretPrompt := strings.Join([]string{
			"You are a helpful assistant. State the result of the calculation described by the provided JSON in one short sentence of natural language.",
			"Do not mention that you are translating JSON data.",
			"JSON Calculation Data: " + string(jsonResult),
		}, " ")

		return []ContentPart{
			{Type: "json", Text: string(jsonResult)},
			{Type: "interpret", Text: interpretPrompt},
		}, nil
	}
}

func stripMetaArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if k == AttemptArg || k == UserPromptArg {
			continue
		}
		out[k] = v
	}
	return out
}
