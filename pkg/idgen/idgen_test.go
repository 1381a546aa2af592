package idgen

import (
	"testing"
)

// TestNewID tests basic ID generation
func TestNewID(t *testing.T) {
	id := NewID()
	if len(id) != 20 {
		t.Errorf("NewID() length = %d, want 20", len(id))
	}
}

// TestNewID_Unique tests that generated IDs are unique
func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID() produced duplicate: %s", id)
		}
		seen[id] = struct{}{}
	}
}

// TestNewRequestID tests request ID generation
func TestNewRequestID(t *testing.T) {
	id := NewRequestID()
	if len(id) != 20 {
		t.Errorf("NewRequestID() length = %d, want 20", len(id))
	}
}

// TestNewAuditRunID tests audit run ID generation
func TestNewAuditRunID(t *testing.T) {
	a, b := NewAuditRunID(), NewAuditRunID()
	if a == b {
		t.Error("NewAuditRunID() returned identical IDs")
	}
}
