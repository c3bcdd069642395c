// Package harness runs conformance scenarios against the object kernel.
//
// A scenario constructs objects, sends kernel operations to them and checks
// the results. Every step is recorded in a trace, which can be compared
// against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: integer-arithmetic
//	description: "Literal arithmetic cases"
//	steps:
//	  - bind: a
//	    new: {int: 3}
//	  - bind: b
//	    new: {int: 4}
//	  - bind: sum
//	    send: add
//	    to: a
//	    arg: b
//	    expect: {value: "7", kind: Integer}
//	  - bind: max
//	    new: {int: 9223372036854775807}
//	  - send: add
//	    to: max
//	    arg: b
//	    expect: {error: ARITHMETIC_OVERFLOW}
//	assertions:
//	  - type: distinct_identities
//	  - type: trace_count
//	    op: add
//	    count: 2
//
// A step either constructs an object (new: {int: n} or new: {bool: b}) or
// sends an operation to a bound object. Results of new, add and subtract are
// objects and may be bound; every other operation yields a truth value or a
// display string.
//
// Operations: identity, isIdentical, equals, display, isTrue, and, or, not,
// add, subtract, lessThan.
//
// # Validation
//
// Documents are checked against a CUE schema before decoding, so unknown
// fields, unknown operations and wrongly typed values are rejected with the
// offending path. Decoding then uses yaml.v3 with KnownFields, and
// cross-references (to/arg naming an earlier bind) are checked last.
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace, optionally with a value
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//   - distinct_identities: every object the scenario created has its own ID
//
// # Determinism
//
// Identities come from the process-wide allocator, so they are never traced;
// the identity op renders "valid" instead. Everything else in a trace is a
// pure function of the scenario, which keeps golden files stable.
package harness
