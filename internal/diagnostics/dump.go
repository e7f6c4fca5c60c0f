package diagnostics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSkippedNames writes the per-cycle unresolved-name report for offline
// review. The file is a JSON array whose first element is the full id→name
// catalog snapshot; every following element is one unresolved name as it
// looked after sanitization. The file is overwritten each cycle.
func WriteSkippedNames(path string, mapping map[string]string, names []string) error {
	entries := make([]any, 0, len(names)+1)
	entries = append(entries, mapping)
	for _, name := range names {
		entries = append(entries, name)
	}

	payload, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal skipped names: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write skipped names: %w", err)
	}
	return nil
}
