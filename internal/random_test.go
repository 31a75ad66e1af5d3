package internal

import (
	"strings"
	"testing"
)

func TestNewTokenKeyLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{1, 16, 32, 64} {
		key, err := NewTokenKey(length)
		if err != nil {
			t.Fatalf("NewTokenKey(%d) failed: %v", length, err)
		}
		if len(key) != length {
			t.Fatalf("expected length %d, got %d", length, len(key))
		}
		for _, r := range key {
			if !strings.ContainsRune(KeyAlphabet, r) {
				t.Fatalf("key %q contains %q outside alphabet", key, r)
			}
		}
	}
}

func TestNewTokenKeyRejectsInvalidLength(t *testing.T) {
	if _, err := NewTokenKey(0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := NewTokenKey(-4); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestNewTokenKeyUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		key, err := NewTokenKey(32)
		if err != nil {
			t.Fatalf("NewTokenKey failed: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = struct{}{}
	}
}
