// internal/calc/registry.go
package calc

import "math"

const (
	// DefaultOperandLimit bounds the magnitude of general operands.
	DefaultOperandLimit = 1e308
	// DefaultExponentLimit bounds the magnitude of the power exponent so a
	// single call cannot request an unbounded computation.
	DefaultExponentLimit = 1000
)

// Parameter describes one named operand of an operation, in declared order.
type Parameter struct {
	Name        string
	Role        string
	Description string
	Bounds      Bounds
}

// Operation is one registered tool: a name, an ordered parameter list, and the
// arithmetic applied to the validated values. Operations are immutable after
// NewRegistry returns.
type Operation struct {
	Name        string
	Description string
	Params      []Parameter
	apply       func(vals []float64) (float64, error)
}

// Schema returns the operation's parameter list as a JSON-schema document for
// boundary-layer validation and for tool discovery by an LLM host.
func (op Operation) Schema() map[string]any {
	properties := make(map[string]any, len(op.Params))
	required := make([]string, 0, len(op.Params))
	for _, p := range op.Params {
		properties[p.Name] = map[string]any{
			"type":        "number",
			"description": p.Description,
		}
		required = append(required, p.Name)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Registry is the fixed operation table. It is read-only after construction,
// so concurrent dispatches need no locking.
type Registry struct {
	ops   []Operation
	index map[string]int
}

// NewRegistry builds the five-operation table with the given magnitude limits.
// Limits at or below zero fall back to the defaults.
func NewRegistry(operandLimit, exponentLimit float64) *Registry {
	if operandLimit <= 0 {
		operandLimit = DefaultOperandLimit
	}
	if exponentLimit <= 0 {
		exponentLimit = DefaultExponentLimit
	}
	operand := Bounds{Min: -operandLimit, Max: operandLimit}
	exponent := Bounds{Min: -exponentLimit, Max: exponentLimit}

	ops := []Operation{
		{
			Name:        "add",
			Description: "Add two numbers.",
			Params: []Parameter{
				{Name: "a", Role: "operand", Description: "The first addend.", Bounds: operand},
				{Name: "b", Role: "operand", Description: "The second addend.", Bounds: operand},
			},
			apply: func(vals []float64) (float64, error) { return vals[0] + vals[1], nil },
		},
		{
			Name:        "multiply",
			Description: "Multiply two numbers.",
			Params: []Parameter{
				{Name: "a", Role: "operand", Description: "The first factor.", Bounds: operand},
				{Name: "b", Role: "operand", Description: "The second factor.", Bounds: operand},
			},
			apply: func(vals []float64) (float64, error) { return vals[0] * vals[1], nil },
		},
		{
			Name:        "subtract",
			Description: "Subtract the second number from the first.",
			Params: []Parameter{
				{Name: "a", Role: "operand", Description: "The minuend.", Bounds: operand},
				{Name: "b", Role: "operand", Description: "The subtrahend.", Bounds: operand},
			},
			apply: func(vals []float64) (float64, error) { return vals[0] - vals[1], nil },
		},
		{
			Name:        "divide",
			Description: "Divide the first number by the second.",
			Params: []Parameter{
				{Name: "a", Role: "operand", Description: "The dividend.", Bounds: operand},
				{Name: "b", Role: "divisor", Description: "The divisor. Must not be zero.", Bounds: operand},
			},
			apply: func(vals []float64) (float64, error) {
				if vals[1] == 0 {
					return 0, newError(KindDivisionByZero, "division by zero is not allowed")
				}
				return vals[0] / vals[1], nil
			},
		},
		{
			Name:        "power",
			Description: "Raise the base to the power of the exponent.",
			Params: []Parameter{
				{Name: "base", Role: "base", Description: "The base.", Bounds: operand},
				{Name: "exponent", Role: "exponent", Description: "The exponent.", Bounds: exponent},
			},
			apply: func(vals []float64) (float64, error) {
				base, exp := vals[0], vals[1]
				// math.Pow already defines Pow(0, 0) = 1, but the contract
				// pins it explicitly rather than inheriting library behavior.
				if base == 0 && exp == 0 {
					return 1, nil
				}
				result := math.Pow(base, exp)
				if math.IsNaN(result) || math.IsInf(result, 0) {
					return 0, newError(KindInvalidValue, "power result is not a finite number")
				}
				return result, nil
			},
		},
	}

	index := make(map[string]int, len(ops))
	for i, op := range ops {
		index[op.Name] = i
	}
	return &Registry{ops: ops, index: index}
}

// DefaultRegistry builds the operation table with the default limits.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultOperandLimit, DefaultExponentLimit)
}

// Operations returns the registered operations in declaration order.
func (r *Registry) Operations() []Operation {
	out := make([]Operation, len(r.ops))
	copy(out, r.ops)
	return out
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	i, ok := r.index[name]
	if !ok {
		return Operation{}, false
	}
	return r.ops[i], true
}
