package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConformanceScenarios runs every scenario under testdata/scenarios and
// compares its trace with the matching golden file.
//
// To regenerate golden files after an intended change:
//
//	go test ./internal/harness -run TestConformanceScenarios -update
func TestConformanceScenarios(t *testing.T) {
	tests := []struct {
		file  string
		steps int
	}{
		{file: "integer_arithmetic.yaml", steps: 14},
		{file: "boolean_logic.yaml", steps: 15},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", tt.file))
			require.NoError(t, err)

			result, err := runWithGolden(t, scenario)
			require.NoError(t, err)

			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, tt.steps)
			assert.NotEmpty(t, result.RunID)
		})
	}
}
