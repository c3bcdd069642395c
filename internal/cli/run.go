package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/objkernel/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to harness.UUIDv7Generator.
	RunIDs harness.RunIDGenerator
}

// RunResult is the payload of the run command.
type RunResult struct {
	Scenario string               `json:"scenario"`
	RunID    string               `json:"run_id"`
	Pass     bool                 `json:"pass"`
	Trace    []harness.TraceEvent `json:"trace"`
	Errors   []string             `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario and print its trace",
		Long: `Run a single scenario against the object kernel and print the trace.

Operations: ` + strings.Join(harness.OperationNames(), ", ") + `

Exit codes:
  0 - Scenario passed
  1 - Scenario failed (expectation or assertion)
  2 - Command error (unreadable or invalid scenario)

Examples:
  objkernel run ./scenarios/integer_arithmetic.yaml
  objkernel run ./scenarios/boolean_logic.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		logger.Error("failed to load scenario", "path", path, "error", err)
		if ferr := formatter.Error(loadErrorCode(err), err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	hopts := []harness.Option{harness.WithLogger(logger)}
	if opts.RunIDs != nil {
		hopts = append(hopts, harness.WithRunIDGenerator(opts.RunIDs))
	}
	result, err := harness.New(hopts...).Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := RunResult{
		Scenario: scenario.Name,
		RunID:    result.RunID,
		Pass:     result.Pass,
		Trace:    result.Trace,
		Errors:   result.Errors,
	}

	if opts.Format == "json" {
		if err := outputRunJSON(cmd, out); err != nil {
			return err
		}
	} else {
		outputRunText(cmd, out)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

// outputRunJSON writes the run result in the CLI response envelope.
func outputRunJSON(cmd *cobra.Command, out RunResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    out,
		TraceID: out.RunID,
	}
	if !out.Pass {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeScenarioFailed,
			Message: fmt.Sprintf("scenario %s failed", out.Scenario),
			Details: out.Errors,
		}
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(response)
}

// outputRunText writes the run result for humans.
func outputRunText(cmd *cobra.Command, out RunResult) {
	w := cmd.OutOrStdout()

	mark := "✓"
	if !out.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (run %s)\n", mark, out.Scenario, out.RunID)
	for _, ev := range out.Trace {
		fmt.Fprintf(w, "  [%d] %s\n", ev.Step, ev)
	}
	for _, e := range out.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
}
