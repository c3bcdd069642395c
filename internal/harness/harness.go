package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/objkernel/internal/object"
)

// Harness executes scenarios against the object kernel.
//
// Each run starts with an empty set of bindings. Objects draw identities from
// the process-wide allocator, so runs never share an identity.
type Harness struct {
	logger *slog.Logger
	runIDs RunIDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for step and scenario events.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithRunIDGenerator sets the generator for run IDs of scenarios that do
// not pin one.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(h *Harness) {
		h.runIDs = gen
	}
}

// New creates a Harness. By default logs are discarded and run IDs are
// UUIDv7.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Steps run in order. A step whose outcome differs from its expect clause
// fails the result but does not stop the run. Assertions are evaluated after
// the last step. The returned error is reserved for scenarios that cannot be
// run at all.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	runID := scenario.RunID
	if runID == "" {
		runID = h.runIDs.Generate()
	}

	result := NewResult(runID)
	logger := h.logger.With("scenario", scenario.Name, "run_id", runID)

	env := make(map[string]object.Object)
	for i, step := range scenario.Steps {
		ev, obj, err := h.executeStep(i, step, env)
		if obj != nil {
			result.track(obj)
			if step.Bind != "" {
				env[step.Bind] = obj
			}
		}
		if err != nil {
			ev.Error = errorCode(err)
		}
		result.AddTrace(ev)

		if msg := checkExpect(i, step, ev, err); msg != "" {
			result.AddError(msg)
		}

		logger.Debug("step executed",
			"step", i,
			"op", ev.Op,
			"value", ev.Value,
			"error", ev.Error,
		)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	logger.Info("scenario completed",
		"pass", result.Pass,
		"steps", len(result.Trace),
		"errors", len(result.Errors),
	)

	return result, nil
}

// executeStep runs one step. It returns the trace event (without error
// code), the object produced if any, and the step failure if any.
func (h *Harness) executeStep(index int, step Step, env map[string]object.Object) (ev TraceEvent, obj object.Object, err error) {
	ev = TraceEvent{
		Step: index,
		Op:   step.Op(),
		Bind: step.Bind,
		To:   step.To,
		Arg:  step.Arg,
	}

	// Construction panics when identities run out.
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok || !object.IsExhausted(perr) {
				panic(r)
			}
			obj, err = nil, perr
		}
	}()

	if step.New != nil {
		obj, err = construct(step.New)
	} else {
		obj, ev.Value, err = h.send(step, env)
	}
	if err != nil {
		return ev, nil, err
	}
	if obj != nil {
		ev.Kind = obj.Kind().String()
		ev.Value = object.Display(obj)
	}
	return ev, obj, nil
}

// construct creates an object from a literal.
func construct(lit *Literal) (object.Object, error) {
	switch {
	case lit.Int != nil:
		return object.NewInteger(*lit.Int), nil
	case lit.Bool != nil:
		return object.NewBoolean(*lit.Bool), nil
	default:
		return nil, fmt.Errorf("literal has neither int nor bool")
	}
}

// send resolves operands and applies an operation.
func (h *Harness) send(step Step, env map[string]object.Object) (object.Object, string, error) {
	op, ok := operations[step.Send]
	if !ok {
		return nil, "", fmt.Errorf("unknown operation %q", step.Send)
	}

	recv, err := lookup(env, step.Send, step.To)
	if err != nil {
		return nil, "", err
	}
	var arg object.Object
	if !op.unary {
		if arg, err = lookup(env, step.Send, step.Arg); err != nil {
			return nil, "", err
		}
	}

	out, err := op.apply(step.Send, recv, arg)
	if err != nil {
		return nil, "", err
	}
	return out.obj, out.text, nil
}

func lookup(env map[string]object.Object, op, name string) (object.Object, error) {
	o, ok := env[name]
	if !ok {
		return nil, &StepError{
			Code:    ErrCodeUnbound,
			Op:      op,
			Message: fmt.Sprintf("%q is not bound", name),
		}
	}
	return o, nil
}

// checkExpect compares a step outcome against its expect clause and returns
// a failure message, or "" if the step met expectations.
func checkExpect(index int, step Step, ev TraceEvent, err error) string {
	exp := step.Expect
	if exp == nil || exp.Error == "" {
		if err != nil {
			return fmt.Sprintf("step %d (%s): unexpected error: %v", index, ev.Op, err)
		}
	}
	if exp == nil {
		return ""
	}

	if exp.Error != "" {
		if err == nil {
			return fmt.Sprintf("step %d (%s): expected error %s, got value %q", index, ev.Op, exp.Error, ev.Value)
		}
		if ev.Error != exp.Error {
			return fmt.Sprintf("step %d (%s): expected error %s, got %s", index, ev.Op, exp.Error, ev.Error)
		}
		return ""
	}

	if exp.Value != nil && ev.Value != *exp.Value {
		return fmt.Sprintf("step %d (%s): expected value %q, got %q", index, ev.Op, *exp.Value, ev.Value)
	}
	if exp.Kind != "" && ev.Kind != exp.Kind {
		return fmt.Sprintf("step %d (%s): expected kind %s, got %q", index, ev.Op, exp.Kind, ev.Kind)
	}
	return ""
}
