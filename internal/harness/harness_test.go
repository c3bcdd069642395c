package harness

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/objkernel/internal/identity"
)

func intLit(v int64) *Literal { return &Literal{Int: &v} }

func boolLit(v bool) *Literal { return &Literal{Bool: &v} }

func str(s string) *string { return &s }

func TestRun_ArithmeticScenario(t *testing.T) {
	scenario := &Scenario{
		Name:  "arithmetic",
		RunID: "run-arith",
		Steps: []Step{
			{Bind: "a", New: intLit(10)},
			{Bind: "b", New: intLit(3)},
			{Bind: "d", Send: "subtract", To: "a", Arg: "b", Expect: &Expect{Value: str("7"), Kind: "Integer"}},
			{Send: "lessThan", To: "d", Arg: "a", Expect: &Expect{Value: str("true")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "run-arith", result.RunID)
	require.Len(t, result.Trace, 4)

	assert.Equal(t, TraceEvent{Step: 0, Op: "new", Bind: "a", Kind: "Integer", Value: "10"}, result.Trace[0])
	assert.Equal(t, TraceEvent{Step: 2, Op: "subtract", Bind: "d", To: "a", Arg: "b", Kind: "Integer", Value: "7"}, result.Trace[2])
	assert.Equal(t, TraceEvent{Step: 3, Op: "lessThan", To: "d", Arg: "a", Value: "true"}, result.Trace[3])

	assert.Len(t, result.Created(), 3, "two literals and one difference")
}

func TestRun_BooleanOperations(t *testing.T) {
	tests := []struct {
		op   string
		recv bool
		arg  bool
		want string
	}{
		{"and", true, true, "true"},
		{"and", true, false, "false"},
		{"and", false, true, "false"},
		{"and", false, false, "false"},
		{"or", true, true, "true"},
		{"or", true, false, "true"},
		{"or", false, true, "true"},
		{"or", false, false, "false"},
		{"equals", true, true, "true"},
		{"equals", true, false, "false"},
		{"isIdentical", true, true, "false"},
	}

	for _, tt := range tests {
		scenario := &Scenario{
			Name: "bool",
			Steps: []Step{
				{Bind: "x", New: boolLit(tt.recv)},
				{Bind: "y", New: boolLit(tt.arg)},
				{Send: tt.op, To: "x", Arg: "y", Expect: &Expect{Value: str(tt.want)}},
			},
		}
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "%v %s %v: %v", tt.recv, tt.op, tt.arg, result.Errors)
	}
}

func TestRun_UnaryOperations(t *testing.T) {
	scenario := &Scenario{
		Name: "unary",
		Steps: []Step{
			{Bind: "t", New: boolLit(true)},
			{Bind: "n", New: intLit(-42)},
			{Send: "not", To: "t", Expect: &Expect{Value: str("false")}},
			{Send: "isTrue", To: "t", Expect: &Expect{Value: str("true")}},
			{Send: "display", To: "n", Expect: &Expect{Value: str("-42")}},
			{Send: "identity", To: "n", Expect: &Expect{Value: str("valid")}},
			{Send: "isIdentical", To: "n", Arg: "n", Expect: &Expect{Value: str("true")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_OverflowIsTraced(t *testing.T) {
	scenario := &Scenario{
		Name: "overflow",
		Steps: []Step{
			{Bind: "min", New: intLit(math.MinInt64)},
			{Bind: "one", New: intLit(1)},
			{Bind: "under", Send: "subtract", To: "min", Arg: "one", Expect: &Expect{Error: "ARITHMETIC_OVERFLOW"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "ARITHMETIC_OVERFLOW", result.Trace[2].Error)
	assert.Empty(t, result.Trace[2].Value)
	assert.Empty(t, result.Trace[2].Kind)
	assert.Len(t, result.Created(), 2, "failed arithmetic creates nothing")
}

func TestRun_IdentityExhaustionIsTraced(t *testing.T) {
	saved := identity.Default
	identity.Default = identity.NewAllocatorAt(math.MaxUint64 - 1)
	defer func() { identity.Default = saved }()

	scenario := &Scenario{
		Name: "exhausted",
		Steps: []Step{
			{Bind: "last", New: intLit(1)},
			{Bind: "none", New: boolLit(true), Expect: &Expect{Error: "IDENTITY_EXHAUSTED"}},
			{Send: "display", To: "last", Expect: &Expect{Value: str("1")}},
			{Bind: "sum", Send: "add", To: "last", Arg: "last", Expect: &Expect{Error: "IDENTITY_EXHAUSTED"}},
			{Send: "display", To: "none", Expect: &Expect{Error: ErrCodeUnbound}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 5, "steps after exhaustion still run")
	assert.Equal(t, "IDENTITY_EXHAUSTED", result.Trace[1].Error)
	assert.Empty(t, result.Trace[1].Value)
	assert.Equal(t, "1", result.Trace[2].Value)
	assert.Equal(t, "IDENTITY_EXHAUSTED", result.Trace[3].Error)
	assert.Equal(t, ErrCodeUnbound, result.Trace[4].Error)
	require.Len(t, result.Created(), 1)
	assert.Equal(t, identity.ID(math.MaxUint64), result.Created()[0].ID())
}

func TestRun_UnexpectedExhaustionFails(t *testing.T) {
	saved := identity.Default
	identity.Default = identity.NewAllocatorAt(math.MaxUint64)
	defer func() { identity.Default = saved }()

	result, err := Run(&Scenario{
		Name:  "exhausted",
		Steps: []Step{{Bind: "x", New: intLit(7)}},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 0 (new): unexpected error")
	assert.Contains(t, result.Errors[0], "IDENTITY_EXHAUSTED: cannot allocate identity for Integer")
}

func TestRun_FailedBindLeavesNameUnbound(t *testing.T) {
	scenario := &Scenario{
		Name: "failed_bind",
		Steps: []Step{
			{Bind: "max", New: intLit(math.MaxInt64)},
			{Bind: "sum", Send: "add", To: "max", Arg: "max", Expect: &Expect{Error: "ARITHMETIC_OVERFLOW"}},
			{Send: "display", To: "sum", Expect: &Expect{Error: ErrCodeUnbound}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, ErrCodeUnbound, result.Trace[2].Error)
}

func TestRun_KindMismatch(t *testing.T) {
	tests := []struct {
		name string
		op   string
		recv *Literal
		arg  *Literal
	}{
		{"AddBoolean", "add", intLit(1), boolLit(true)},
		{"SubtractFromBoolean", "subtract", boolLit(false), intLit(1)},
		{"LessThanBoolean", "lessThan", intLit(1), boolLit(false)},
		{"OrInteger", "or", boolLit(false), intLit(0)},
		{"NotInteger", "not", intLit(0), nil},
		{"IsTrueInteger", "isTrue", intLit(1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := []Step{{Bind: "r", New: tt.recv}}
			send := Step{Send: tt.op, To: "r", Expect: &Expect{Error: ErrCodeKindMismatch}}
			if tt.arg != nil {
				steps = append(steps, Step{Bind: "a", New: tt.arg})
				send.Arg = "a"
			}
			steps = append(steps, send)

			result, err := Run(&Scenario{Name: tt.name, Steps: steps})
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_CrossKindEqualityIsFalse(t *testing.T) {
	scenario := &Scenario{
		Name: "cross_kind",
		Steps: []Step{
			{Bind: "t", New: boolLit(true)},
			{Bind: "one", New: intLit(1)},
			{Send: "equals", To: "t", Arg: "one", Expect: &Expect{Value: str("false")}},
			{Send: "equals", To: "one", Arg: "t", Expect: &Expect{Value: str("false")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectationMismatchContinues(t *testing.T) {
	scenario := &Scenario{
		Name: "mismatch",
		Steps: []Step{
			{Bind: "a", New: intLit(1)},
			{Bind: "b", Send: "add", To: "a", Arg: "a", Expect: &Expect{Value: str("3")}},
			{Send: "display", To: "b", Expect: &Expect{Value: str("2")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `step 1 (add): expected value "3", got "2"`)
	assert.Len(t, result.Trace, 3, "run continues after a failed expectation")
}

func TestRun_ExpectationFailures(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr string
	}{
		{
			name: "WrongKind",
			steps: []Step{
				{New: intLit(1), Expect: &Expect{Kind: "Boolean"}},
			},
			wantErr: "expected kind Boolean",
		},
		{
			name: "MissingError",
			steps: []Step{
				{Bind: "a", New: intLit(1)},
				{Send: "add", To: "a", Arg: "a", Expect: &Expect{Error: "ARITHMETIC_OVERFLOW"}},
			},
			wantErr: `expected error ARITHMETIC_OVERFLOW, got value "2"`,
		},
		{
			name: "WrongError",
			steps: []Step{
				{Bind: "a", New: intLit(1)},
				{Send: "not", To: "a", Expect: &Expect{Error: "ARITHMETIC_OVERFLOW"}},
			},
			wantErr: "expected error ARITHMETIC_OVERFLOW, got KIND_MISMATCH",
		},
		{
			name: "UnexpectedError",
			steps: []Step{
				{Bind: "a", New: intLit(math.MaxInt64)},
				{Send: "add", To: "a", Arg: "a"},
			},
			wantErr: "unexpected error: ARITHMETIC_OVERFLOW",
		},
		{
			name: "UnexpectedErrorWithValueExpect",
			steps: []Step{
				{Bind: "a", New: intLit(math.MaxInt64)},
				{Send: "add", To: "a", Arg: "a", Expect: &Expect{Value: str("0")}},
			},
			wantErr: "unexpected error: ARITHMETIC_OVERFLOW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(&Scenario{Name: tt.name, Steps: tt.steps})
			require.NoError(t, err)

			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestRun_AssertionFailureFailsResult(t *testing.T) {
	scenario := &Scenario{
		Name:  "assert_fail",
		Steps: []Step{{New: intLit(1)}},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Op: "new", Count: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion 0 (trace_count)")
}

func TestRun_NilScenario(t *testing.T) {
	_, err := Run(nil)
	assert.Error(t, err)
}

func TestHarness_RunIDGenerator(t *testing.T) {
	h := New(WithRunIDGenerator(NewFixedGenerator("run-1", "run-2")))
	scenario := &Scenario{Name: "ids", Steps: []Step{{New: boolLit(false)}}}

	r1, err := h.Run(scenario)
	require.NoError(t, err)
	r2, err := h.Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "run-1", r1.RunID)
	assert.Equal(t, "run-2", r2.RunID)
}

func TestHarness_PinnedRunIDWins(t *testing.T) {
	h := New(WithRunIDGenerator(NewFixedGenerator()))
	scenario := &Scenario{Name: "pinned", RunID: "pinned-id", Steps: []Step{{New: boolLit(true)}}}

	result, err := h.Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "pinned-id", result.RunID)
}

func TestHarness_RunsDoNotShareIdentities(t *testing.T) {
	scenario := &Scenario{Name: "twice", Steps: []Step{{New: intLit(5)}, {New: intLit(5)}}}

	r1, err := Run(scenario)
	require.NoError(t, err)
	r2, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, r1.Trace, r2.Trace, "traces are deterministic")
	for _, a := range r1.Created() {
		for _, b := range r2.Created() {
			assert.NotEqual(t, a.ID(), b.ID())
		}
	}
}

func TestHarness_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := New(WithLogger(logger))

	_, err := h.Run(&Scenario{Name: "logged", RunID: "log-run", Steps: []Step{{New: intLit(1)}}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"step executed"`)
	assert.Contains(t, out, `"msg":"scenario completed"`)
	assert.Contains(t, out, `"scenario":"logged"`)
	assert.Contains(t, out, `"run_id":"log-run"`)
}

func TestOperationNames(t *testing.T) {
	assert.Equal(t, []string{
		"add", "and", "display", "equals", "identity", "isIdentical",
		"isTrue", "lessThan", "not", "or", "subtract",
	}, OperationNames())
}

func TestStepError(t *testing.T) {
	err := &StepError{Code: ErrCodeUnbound, Op: "not", Message: `"x" is not bound`}
	assert.Equal(t, `UNBOUND: "x" is not bound (op=not)`, err.Error())
	assert.Equal(t, ErrCodeUnbound, errorCode(err))
}

func TestTraceEvent_String(t *testing.T) {
	assert.Equal(t, "new -> 3 as a", TraceEvent{Op: "new", Bind: "a", Kind: "Integer", Value: "3"}.String())
	assert.Equal(t, "not to=t -> false", TraceEvent{Op: "not", To: "t", Value: "false"}.String())
	assert.Equal(t, "subtract to=m arg=o -> error ARITHMETIC_OVERFLOW",
		TraceEvent{Op: "subtract", To: "m", Arg: "o", Error: "ARITHMETIC_OVERFLOW"}.String())
}
