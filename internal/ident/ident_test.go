package ident

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	id := New("save")
	if !strings.HasPrefix(id, "save_") {
		t.Errorf("expected save_ prefix, got %s", id)
	}
	if len(id) <= len("save_") {
		t.Errorf("expected a non-empty suffix, got %s", id)
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New("x")
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
