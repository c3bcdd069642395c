package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const goldenSuffix = ".golden"

// GoldenPath returns the golden file path for a scenario under dir.
func GoldenPath(dir, scenarioName string) string {
	return filepath.Join(dir, scenarioName+goldenSuffix)
}

// CompareGolden compares a result against the golden file under dir outside
// of a test. It returns false with a description when they differ or the
// golden file is missing.
func CompareGolden(dir, scenarioName string, result *Result) (bool, string, error) {
	actual, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return false, "", err
	}

	path := GoldenPath(dir, scenarioName)
	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, fmt.Sprintf("golden file %s does not exist", path), nil
	}
	if err != nil {
		return false, "", fmt.Errorf("read golden file: %w", err)
	}

	if bytes.Equal(bytes.TrimSpace(expected), actual) {
		return true, "", nil
	}
	return false, fmt.Sprintf("trace differs from %s\n  expected: %s\n  actual:   %s", path, bytes.TrimSpace(expected), actual), nil
}

// WriteGolden writes a result's trace to the golden file under dir.
func WriteGolden(dir, scenarioName string, result *Result) error {
	data, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	if err := os.WriteFile(GoldenPath(dir, scenarioName), data, 0o644); err != nil {
		return fmt.Errorf("write golden file: %w", err)
	}
	return nil
}
