// internal/util/util_test.go
package util

import (
	"strings"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	t.Parallel()

	input := "line1\nSecondLine"
	want := "line1\nSecon…"
	if got := TruncateToWidth(input, 5); got != want {
		t.Fatalf("TruncateToWidth=%q want %q", got, want)
	}
	if got := TruncateToWidth(input, 50); got != input {
		t.Fatalf("expected untouched text, got %q", got)
	}
}

func TestMinMax(t *testing.T) {
	t.Parallel()

	if Min(2, 3) != 2 || Min(3, 2) != 2 {
		t.Fatal("Min misbehaved")
	}
	if Max(2, 3) != 3 || Max(3, 2) != 3 {
		t.Fatal("Max misbehaved")
	}
	if strings.Repeat("x", Max(0, 1)) != "x" {
		t.Fatal("Max with zero misbehaved")
	}
}
