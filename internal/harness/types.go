package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/objkernel/internal/object"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step  int    `json:"step"`
	Op    string `json:"op"` // "new" or an operation name
	Bind  string `json:"bind,omitempty"`
	To    string `json:"to,omitempty"`
	Arg   string `json:"arg,omitempty"`
	Kind  string `json:"kind,omitempty"`  // set when the result is an object
	Value string `json:"value,omitempty"` // display text of the result
	Error string `json:"error,omitempty"` // error code when the step failed
}

// String renders the event on one line, e.g. "add to=a arg=b -> 7 as sum".
func (ev TraceEvent) String() string {
	var b strings.Builder
	b.WriteString(ev.Op)
	if ev.To != "" {
		fmt.Fprintf(&b, " to=%s", ev.To)
	}
	if ev.Arg != "" {
		fmt.Fprintf(&b, " arg=%s", ev.Arg)
	}
	switch {
	case ev.Error != "":
		fmt.Fprintf(&b, " -> error %s", ev.Error)
	case ev.Value != "":
		fmt.Fprintf(&b, " -> %s", ev.Value)
	}
	if ev.Bind != "" {
		fmt.Fprintf(&b, " as %s", ev.Bind)
	}
	return b.String()
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution.
	RunID string `json:"run_id"`

	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// created holds every object the scenario constructed.
	created []object.Object
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		RunID:  runID,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// Created returns the objects constructed during the run.
func (r *Result) Created() []object.Object {
	return r.created
}

func (r *Result) track(o object.Object) {
	if o != nil {
		r.created = append(r.created, o)
	}
}
