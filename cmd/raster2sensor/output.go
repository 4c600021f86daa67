package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// writeJSON renders v as indented JSON to stdout, or to path when set.
func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
