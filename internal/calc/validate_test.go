// internal/calc/validate_test.go
package calc

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValidateNumberAcceptsNumericTypes(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: -100, Max: 100}
	cases := []struct {
		name  string
		value any
		want  float64
	}{
		{name: "float64", value: 3.14, want: 3.14},
		{name: "float32", value: float32(2), want: 2},
		{name: "int", value: 5, want: 5},
		{name: "int64", value: int64(-7), want: -7},
		{name: "uint", value: uint(9), want: 9},
		{name: "json number", value: json.Number("42"), want: 42},
		{name: "boundary min", value: -100.0, want: -100},
		{name: "boundary max", value: 100.0, want: 100},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateNumber(tc.value, "test", bounds)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestValidateNumberRejectsNonNumbers(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: -100, Max: 100}
	cases := []struct {
		name  string
		value any
	}{
		{name: "string", value: "not_a_number"},
		{name: "list", value: []any{1, 2, 3}},
		{name: "nil", value: nil},
		{name: "bool", value: true},
		{name: "map", value: map[string]any{"a": 1}},
		{name: "bad json number", value: json.Number("nope")},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ValidateNumber(tc.value, "test", bounds); !IsKind(err, KindType) {
				t.Fatalf("expected type error, got %v", err)
			}
		})
	}
}

func TestValidateNumberRejectsNonFinite(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: -DefaultOperandLimit, Max: DefaultOperandLimit}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ValidateNumber(v, "test", bounds); !IsKind(err, KindInvalidValue) {
			t.Fatalf("expected invalid-value error for %v, got %v", v, err)
		}
	}
}

func TestValidateNumberRange(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: -1000, Max: 1000}
	if _, err := ValidateNumber(1001.0, "exponent", bounds); !IsKind(err, KindRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	if _, err := ValidateNumber(-1000.5, "exponent", bounds); !IsKind(err, KindRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	got, err := ValidateNumber(-1000.0, "exponent", bounds)
	if err != nil || got != -1000 {
		t.Fatalf("boundary value rejected: got=%v err=%v", got, err)
	}
}

func TestValidateNumberReturnsValueUnchanged(t *testing.T) {
	t.Parallel()

	bounds := Bounds{Min: -10, Max: 10}
	v, err := ValidateNumber(0.1, "a", bounds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.1 {
		t.Fatalf("value changed: %v", v)
	}
}
