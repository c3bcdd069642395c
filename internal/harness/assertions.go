package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/objkernel/internal/identity"
	"github.com/roach88/objkernel/internal/object"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Step, ev)
		}
	}

	return buf.String()
}

// assertTraceContains checks that an op appears in the trace, optionally
// with a specific value.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Op == a.Op && (a.Value == nil || ev.Value == *a.Value) {
			return nil
		}
	}

	expected := fmt.Sprintf("op %s", a.Op)
	if a.Value != nil {
		expected += fmt.Sprintf(" with value %q", *a.Value)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops appear in the specified order.
// Ops don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Ops) && ev.Op == a.Ops[next] {
			next++
		}
	}
	if next == len(a.Ops) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("ops in order: %v", a.Ops),
		Actual:   fmt.Sprintf("matched %v, missing %s after it", a.Ops[:next], a.Ops[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks that an op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Op == a.Op {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertDistinctIdentities checks that every created object has a valid
// identity not shared with any other created object.
func assertDistinctIdentities(created []object.Object) error {
	seen := make(map[identity.ID]object.Object, len(created))
	for _, o := range created {
		id := o.ID()
		if !id.Valid() {
			return &AssertionError{
				Type:     AssertDistinctIdentities,
				Expected: "every object has a valid identity",
				Actual:   fmt.Sprintf("%s has identity %s", o.Kind(), id),
			}
		}
		if prev, dup := seen[id]; dup {
			return &AssertionError{
				Type:     AssertDistinctIdentities,
				Expected: fmt.Sprintf("%d distinct identities", len(created)),
				Actual:   fmt.Sprintf("%s and %s share identity %s", prev.Kind(), o.Kind(), id),
			}
		}
		seen[id] = o
	}
	return nil
}

// EvaluateAssertions runs all assertions against a result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertDistinctIdentities:
			err = assertDistinctIdentities(result.Created())
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}

	return errors
}
