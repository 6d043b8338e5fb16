package caseid

import (
	"strings"
	"testing"
)

func TestNew_Format(t *testing.T) {
	id, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(id) != 10 {
		t.Errorf("len(id) = %d, want 10", len(id))
	}
	if id != strings.ToLower(id) {
		t.Errorf("id %q is not lowercase", id)
	}
	if !Valid(id) {
		t.Errorf("Valid(%q) = false", id)
	}
}

func TestNew_Distinct(t *testing.T) {
	const n = 20000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate case id %q after %d ids", id, i)
		}
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0123456789", true},
		{"abcdefabcd", true},
		{"", false},
		{"012345678", false},
		{"0123456789a", false},
		{"zzzzzzzzzz", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
