package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseJobID tests job ID parsing
func TestParseJobID(t *testing.T) {
	id, err := ParseJobID("job-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "job-42" {
		t.Errorf("Expected 'job-42', got '%s'", id.String())
	}

	if _, err := ParseJobID("  "); err == nil {
		t.Error("Expected error for blank job ID")
	}
}

// TestParseResultID tests result ID parsing
func TestParseResultID(t *testing.T) {
	id, err := ParseResultID("res-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "res-1" {
		t.Errorf("Expected 'res-1', got '%s'", id.String())
	}

	if _, err := ParseResultID(""); err == nil {
		t.Error("Expected error for empty result ID")
	}
}
