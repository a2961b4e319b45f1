package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ResultFile is the report written by WriteResult.
const ResultFile = "mirror-result.json"

// WriteResult writes result as mirror-result.json in outputDir.
func WriteResult(outputDir string, result *Result) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out := *result
	if out.CompletedAt.IsZero() {
		out.CompletedAt = time.Now()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mirror result: %w", err)
	}

	resultPath := filepath.Join(outputDir, ResultFile)
	if err := os.WriteFile(resultPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write mirror result: %w", err)
	}

	return nil
}

// ReadResult reads a mirror result from outputDir.
func ReadResult(outputDir string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, ResultFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror result: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mirror result: %w", err)
	}
	return &result, nil
}
