package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"display": "42"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.TraceID)
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestOutputFormatter_JSONSuccessWithTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	require.NoError(t, formatter.SuccessWithTrace("done", "run-7"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "run-7", resp.TraceID)
	assert.Equal(t, "done", resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeScenarioLoad, "failed to parse YAML", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenarioLoad, resp.Error.Code)
	assert.Equal(t, "failed to parse YAML", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "scenario.yaml", "step": "3"}
	require.NoError(t, formatter.Error(ErrCodeSchema, "schema violation", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("All scenarios valid"))
	assert.Contains(t, buf.String(), "All scenarios valid")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Error(ErrCodeInvalidLiteral, "invalid int literal", nil))
	assert.Contains(t, buf.String(), "Error [E301]")
	assert.Contains(t, buf.String(), "invalid int literal")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error(ErrCodeGeneric, "failed", map[string]string{"file": "x.yaml"}))
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: diag,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "scenario.yaml")

			assert.Empty(t, out.String(), "diagnostics never go to the output writer")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "Processing scenario.yaml")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestOutputFormatter_GetErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Writer: out}
	assert.Same(t, out, f.GetErrWriter())

	diag := &bytes.Buffer{}
	f.ErrWriter = diag
	assert.Same(t, diag, f.GetErrWriter())
}

func TestExitError(t *testing.T) {
	cause := errors.New("no such file")
	err := WrapExitError(ExitCommandError, "failed to load scenario", cause)

	assert.Equal(t, "failed to load scenario: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "failed"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status:  "ok",
		Data:    map[string]int{"passed": 2},
		TraceID: "0192-run",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ok", decoded.Status)
	assert.Equal(t, "0192-run", decoded.TraceID)
}
