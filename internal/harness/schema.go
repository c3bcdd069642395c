package harness

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// scenarioSchema constrains scenario documents. Definitions are closed, so
// misspelled fields are rejected.
const scenarioSchema = `
#Name: =~"^[A-Za-z_][A-Za-z0-9_]*$"

#Op: "identity" | "isIdentical" | "equals" | "display" | "isTrue" |
	"and" | "or" | "not" | "add" | "subtract" | "lessThan"

#Literal: {int: int} | {bool: bool}

#Expect: {
	value?: string
	kind?:  "Object" | "Boolean" | "Integer"
	error?: "ARITHMETIC_OVERFLOW" | "IDENTITY_EXHAUSTED" | "KIND_MISMATCH" | "UNBOUND"
}

#Step: {
	bind?:   #Name
	new?:    #Literal
	send?:   #Op
	to?:     #Name
	arg?:    #Name
	expect?: #Expect
}

#Assertion: {
	type:   "trace_contains" | "trace_order" | "trace_count" | "distinct_identities"
	op?:    "new" | #Op
	value?: string
	count?: int & >=0
	ops?: [...("new" | #Op)]
}

#Scenario: {
	name:        string & !=""
	description: string & !=""
	run_id?:     string
	steps: [#Step, ...#Step]
	assertions?: [...#Assertion]
}
`

// loadSchema compiles the scenario schema in a fresh context.
// A cue.Context is not safe for concurrent use, so none is shared.
func loadSchema() (*cue.Context, cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(scenarioSchema)
	if err := v.Err(); err != nil {
		return nil, cue.Value{}, fmt.Errorf("compile scenario schema: %w", err)
	}
	return ctx, v.LookupPath(cue.ParsePath("#Scenario")), nil
}

// SchemaError reports a scenario document that does not match the schema.
type SchemaError struct {
	// Problems holds one message per violation, each prefixed by its path.
	Problems []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return "schema: " + strings.Join(e.Problems, "; ")
}

// ValidateScenarioData checks a decoded YAML document against the schema.
func ValidateScenarioData(doc any) error {
	ctx, schema, err := loadSchema()
	if err != nil {
		return err
	}

	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return &SchemaError{Problems: []string{err.Error()}}
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// formatSchemaError flattens CUE errors into one message per violation.
func formatSchemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Problems: []string{err.Error()}}
	}

	problems := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		problems = append(problems, msg)
	}
	return &SchemaError{Problems: problems}
}
