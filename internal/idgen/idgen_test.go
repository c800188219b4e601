package idgen

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != Length {
		t.Errorf("len(id) = %d, want %d", len(id), Length)
	}
	for _, c := range id {
		if !strings.ContainsRune(Alphabet, c) {
			t.Errorf("id %q contains character %q outside alphabet", id, c)
		}
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	id, err := GenerateWithPrefix("ws-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, "ws-") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != len("ws-")+Length {
		t.Errorf("len(id) = %d, want %d", len(id), len("ws-")+Length)
	}
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
