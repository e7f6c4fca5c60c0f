package diagnostics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteSkippedNamesLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "skipped.json")
	mapping := map[string]string{"HYPERION": "Hyperion"}

	if err := WriteSkippedNames(path, mapping, []string{"Weird Relic", "Another One"}); err != nil {
		t.Fatalf("WriteSkippedNames failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(entries))
	}

	var snapshot map[string]string
	if err := json.Unmarshal(entries[0], &snapshot); err != nil {
		t.Fatalf("first element must be the mapping snapshot: %v", err)
	}
	if snapshot["HYPERION"] != "Hyperion" {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}

	var name string
	if err := json.Unmarshal(entries[1], &name); err != nil || name != "Weird Relic" {
		t.Fatalf("unexpected second element: %q, %v", name, err)
	}
}

func TestWriteSkippedNamesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skipped.json")

	if err := WriteSkippedNames(path, map[string]string{}, nil); err != nil {
		t.Fatalf("WriteSkippedNames failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) != 1 {
		t.Fatalf("expected only the snapshot element, got %d (%v)", len(entries), err)
	}
}
