package harness

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/roach88/objkernel/internal/object"
)

const opNew = "new"

// Harness-level error codes. Kernel errors carry object.ErrorCode values.
const (
	// ErrCodeKindMismatch indicates an operand of the wrong kind.
	ErrCodeKindMismatch = "KIND_MISMATCH"

	// ErrCodeUnbound indicates a reference to a name no step has bound.
	ErrCodeUnbound = "UNBOUND"
)

// StepError is a step failure detected by the harness rather than the kernel.
type StepError struct {
	Code    string
	Op      string
	Message string
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
}

// errorCode returns the trace code for a step failure.
func errorCode(err error) string {
	if se, ok := err.(*StepError); ok {
		return se.Code
	}
	if code := object.Code(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

// outcome is the result of one operation. Exactly one of obj or text is set.
type outcome struct {
	obj  object.Object
	text string
}

// operation describes one kernel operation the harness can send.
type operation struct {
	// unary operations take no argument.
	unary bool

	// yieldsObject marks operations whose result can be bound.
	yieldsObject bool

	apply func(op string, recv, arg object.Object) (outcome, error)
}

// operations maps operation names to their implementations.
var operations = map[string]operation{
	"identity": {unary: true, apply: func(_ string, recv, _ object.Object) (outcome, error) {
		if recv.ID().Valid() {
			return text("valid"), nil
		}
		return text("invalid"), nil
	}},
	"isIdentical": {apply: func(_ string, recv, arg object.Object) (outcome, error) {
		return boolean(recv.IsIdentical(arg)), nil
	}},
	"equals": {apply: func(_ string, recv, arg object.Object) (outcome, error) {
		return boolean(recv.Equal(arg)), nil
	}},
	"display": {unary: true, apply: func(_ string, recv, _ object.Object) (outcome, error) {
		return text(object.Display(recv)), nil
	}},
	"isTrue": {unary: true, apply: func(op string, recv, _ object.Object) (outcome, error) {
		b, err := asBoolean(op, recv)
		if err != nil {
			return outcome{}, err
		}
		return boolean(b.IsTrue()), nil
	}},
	"not": {unary: true, apply: func(op string, recv, _ object.Object) (outcome, error) {
		b, err := asBoolean(op, recv)
		if err != nil {
			return outcome{}, err
		}
		return boolean(b.Not()), nil
	}},
	"and":      {apply: logical((*object.Boolean).And)},
	"or":       {apply: logical((*object.Boolean).Or)},
	"add":      {yieldsObject: true, apply: arithmetic((*object.Integer).Add)},
	"subtract": {yieldsObject: true, apply: arithmetic((*object.Integer).Subtract)},
	"lessThan": {apply: func(op string, recv, arg object.Object) (outcome, error) {
		x, y, err := integerOperands(op, recv, arg)
		if err != nil {
			return outcome{}, err
		}
		return boolean(x.LessThan(y)), nil
	}},
}

// OperationNames returns the known operation names in sorted order.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func text(s string) outcome {
	return outcome{text: s}
}

func boolean(v bool) outcome {
	return outcome{text: strconv.FormatBool(v)}
}

func logical(fn func(*object.Boolean, *object.Boolean) bool) func(string, object.Object, object.Object) (outcome, error) {
	return func(op string, recv, arg object.Object) (outcome, error) {
		x, err := asBoolean(op, recv)
		if err != nil {
			return outcome{}, err
		}
		y, err := asBoolean(op, arg)
		if err != nil {
			return outcome{}, err
		}
		return boolean(fn(x, y)), nil
	}
}

func arithmetic(fn func(*object.Integer, *object.Integer) (*object.Integer, error)) func(string, object.Object, object.Object) (outcome, error) {
	return func(op string, recv, arg object.Object) (outcome, error) {
		x, y, err := integerOperands(op, recv, arg)
		if err != nil {
			return outcome{}, err
		}
		r, err := fn(x, y)
		if err != nil {
			return outcome{}, err
		}
		return outcome{obj: r}, nil
	}
}

func asBoolean(op string, o object.Object) (*object.Boolean, error) {
	b, ok := object.AsBoolean(o)
	if !ok {
		return nil, kindMismatch(op, object.KindBoolean, o)
	}
	return b, nil
}

func integerOperands(op string, recv, arg object.Object) (*object.Integer, *object.Integer, error) {
	x, ok := object.AsInteger(recv)
	if !ok {
		return nil, nil, kindMismatch(op, object.KindInteger, recv)
	}
	y, ok := object.AsInteger(arg)
	if !ok {
		return nil, nil, kindMismatch(op, object.KindInteger, arg)
	}
	return x, y, nil
}

func kindMismatch(op string, want object.Kind, got object.Object) *StepError {
	return &StepError{
		Code:    ErrCodeKindMismatch,
		Op:      op,
		Message: fmt.Sprintf("expected %s operand, got %s", want, got.Kind()),
	}
}
