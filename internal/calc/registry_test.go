// internal/calc/registry_test.go
package calc

import "testing"

func TestRegistryOperations(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	ops := reg.Operations()
	want := []string{"add", "multiply", "subtract", "divide", "power"}
	if len(ops) != len(want) {
		t.Fatalf("expected %d operations, got %d", len(want), len(ops))
	}
	for i, name := range want {
		if ops[i].Name != name {
			t.Fatalf("operation %d: got %q want %q", i, ops[i].Name, name)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	op, ok := reg.Lookup("power")
	if !ok {
		t.Fatal("power not registered")
	}
	if len(op.Params) != 2 || op.Params[0].Name != "base" || op.Params[1].Name != "exponent" {
		t.Fatalf("unexpected power parameters: %+v", op.Params)
	}
	if op.Params[0].Role != "base" || op.Params[1].Role != "exponent" {
		t.Fatalf("unexpected parameter roles: %+v", op.Params)
	}
	if _, ok := reg.Lookup("modulo"); ok {
		t.Fatal("unregistered operation reported as present")
	}
}

func TestRegistryBoundsConfiguration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(100, 5)
	add, _ := reg.Lookup("add")
	if add.Params[0].Bounds.Max != 100 || add.Params[0].Bounds.Min != -100 {
		t.Fatalf("operand bounds not applied: %+v", add.Params[0].Bounds)
	}
	pow, _ := reg.Lookup("power")
	if pow.Params[1].Bounds.Max != 5 {
		t.Fatalf("exponent bound not applied: %+v", pow.Params[1].Bounds)
	}
	if pow.Params[0].Bounds.Max != 100 {
		t.Fatalf("base should use the operand bound: %+v", pow.Params[0].Bounds)
	}

	// Non-positive limits fall back to defaults.
	fallback := NewRegistry(0, -1)
	add, _ = fallback.Lookup("add")
	if add.Params[0].Bounds.Max != DefaultOperandLimit {
		t.Fatalf("default operand limit not applied: %+v", add.Params[0].Bounds)
	}
}

func TestOperationSchema(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	op, _ := reg.Lookup("divide")
	schema := op.Schema()
	if schema["type"] != "object" {
		t.Fatalf("schema type: %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema properties missing: %v", schema)
	}
	for _, name := range []string{"a", "b"} {
		prop, ok := props[name].(map[string]any)
		if !ok {
			t.Fatalf("property %q missing", name)
		}
		if prop["type"] != "number" {
			t.Fatalf("property %q type: %v", name, prop["type"])
		}
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 2 {
		t.Fatalf("schema required: %v", schema["required"])
	}
}
