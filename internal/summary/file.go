package summary

import (
	"fmt"
	"os"
)

// WriteFile appends the markdown section to the file at path, creating it if
// needed. An empty path disables writing.
func WriteFile(path string, agg *Aggregator) (err error) {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open summary file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close summary file: %w", closeErr)
		}
	}()
	if err := agg.WriteMarkdown(f); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}
	return nil
}
