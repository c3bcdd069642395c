package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario for the kernel.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is an optional fixed run ID. If empty, the harness generates one.
	RunID string `yaml:"run_id,omitempty"`
}

// Step either constructs an object (New) or sends an operation (Send).
type Step struct {
	// Bind names the object produced by this step.
	Bind string `yaml:"bind,omitempty"`

	// New constructs an object from a literal.
	New *Literal `yaml:"new,omitempty"`

	// Send is the operation name.
	Send string `yaml:"send,omitempty"`

	// To names the receiver.
	To string `yaml:"to,omitempty"`

	// Arg names the argument, for operations that take one.
	Arg string `yaml:"arg,omitempty"`

	// Expect is checked against the step outcome. If nil, the step only
	// has to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Op returns the trace name of the step.
func (s Step) Op() string {
	if s.New != nil {
		return opNew
	}
	return s.Send
}

// Literal is exactly one of an integer or a boolean.
type Literal struct {
	Int  *int64 `yaml:"int,omitempty"`
	Bool *bool  `yaml:"bool,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Value is the expected display text of the result.
	Value *string `yaml:"value,omitempty"`

	// Kind is the expected kind name of an object result.
	Kind string `yaml:"kind,omitempty"`

	// Error is the expected error code. When set the step must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the trace after all steps ran.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the operation name (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Value optionally narrows trace_contains to events with this value.
	Value *string `yaml:"value,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected order (trace_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains      = "trace_contains"
	AssertTraceOrder         = "trace_order"
	AssertTraceCount         = "trace_count"
	AssertDistinctIdentities = "distinct_identities"
)

// LoadScenario reads, validates and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and parses a scenario document.
//
// The document is checked against the CUE schema first, then decoded with
// strict field validation, then checked for dangling references.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateScenarioData(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks what the schema cannot: step shape and that every
// reference names an object bound by an earlier step.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	bound := make(map[string]int)
	for i, step := range s.Steps {
		if err := validateStep(i, step, bound); err != nil {
			return err
		}
		if step.Bind != "" {
			if prev, dup := bound[step.Bind]; dup {
				return fmt.Errorf("steps[%d]: %q already bound by steps[%d]", i, step.Bind, prev)
			}
			bound[step.Bind] = i
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step against the bindings made so far.
func validateStep(index int, step Step, bound map[string]int) error {
	switch {
	case step.New != nil && step.Send != "":
		return fmt.Errorf("steps[%d]: new and send are mutually exclusive", index)
	case step.New != nil:
		if (step.New.Int == nil) == (step.New.Bool == nil) {
			return fmt.Errorf("steps[%d].new: exactly one of int or bool is required", index)
		}
		if step.To != "" || step.Arg != "" {
			return fmt.Errorf("steps[%d]: new takes no receiver or argument", index)
		}
		return nil
	case step.Send == "":
		return fmt.Errorf("steps[%d]: one of new or send is required", index)
	}

	op, ok := operations[step.Send]
	if !ok {
		return fmt.Errorf("steps[%d]: unknown operation %q", index, step.Send)
	}
	if step.To == "" {
		return fmt.Errorf("steps[%d]: %s requires a receiver (to)", index, step.Send)
	}
	if _, ok := bound[step.To]; !ok {
		return fmt.Errorf("steps[%d]: receiver %q is not bound by an earlier step", index, step.To)
	}
	if op.unary && step.Arg != "" {
		return fmt.Errorf("steps[%d]: %s takes no argument", index, step.Send)
	}
	if !op.unary {
		if step.Arg == "" {
			return fmt.Errorf("steps[%d]: %s requires an argument (arg)", index, step.Send)
		}
		if _, ok := bound[step.Arg]; !ok {
			return fmt.Errorf("steps[%d]: argument %q is not bound by an earlier step", index, step.Arg)
		}
	}
	if step.Bind != "" && !op.yieldsObject {
		return fmt.Errorf("steps[%d]: %s does not produce an object to bind", index, step.Send)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertDistinctIdentities:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
