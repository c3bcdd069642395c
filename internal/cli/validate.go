package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/objkernel/internal/harness"
)

// FileValidation holds the validation outcome of one scenario file.
type FileValidation struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Code   string   `json:"code,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema without running them.

Checks field names and types, operation names, expected error codes and
that every receiver and argument names an object bound by an earlier step.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := validateFile(path)
		formatter.VerboseLog("validated %s: valid=%t", path, fv.Valid)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		status := "ok"
		if !result.Valid {
			status = "error"
		}
		if err := json.NewEncoder(cmd.OutOrStdout()).Encode(CLIResponse{Status: status, Data: result}); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s\n", fv.Path)
				continue
			}
			fmt.Fprintf(w, "✗ %s [%s]\n", fv.Path, fv.Code)
			for _, e := range fv.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// validateFile loads one scenario and classifies any failure.
func validateFile(path string) FileValidation {
	_, err := harness.LoadScenario(path)
	if err == nil {
		return FileValidation{Path: path, Valid: true}
	}

	fv := FileValidation{Path: path, Code: loadErrorCode(err)}
	var schemaErr *harness.SchemaError
	if errors.As(err, &schemaErr) {
		fv.Errors = schemaErr.Problems
	} else {
		fv.Errors = []string{err.Error()}
	}
	return fv
}

// loadErrorCode maps a scenario load error to a CLI error code.
func loadErrorCode(err error) string {
	var schemaErr *harness.SchemaError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &schemaErr):
		return ErrCodeSchema
	default:
		return ErrCodeScenarioLoad
	}
}
