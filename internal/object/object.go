package object

import (
	"fmt"

	"github.com/roach88/objkernel/internal/identity"
)

// Object is the capability every value satisfies.
// Only types embedding Header implement it.
type Object interface {
	// ID returns the object's identity.
	ID() identity.ID

	// Kind returns the object's kind.
	Kind() Kind

	// IsIdentical reports whether other is this very object.
	IsIdentical(other Object) bool

	// Equal reports value equality. It returns false, never panics, when
	// other is nil or of another kind.
	Equal(other Object) bool

	// String returns the display string.
	String() string

	object() // sealed
}

// Kind enumerates the known object kinds.
type Kind uint8

const (
	// KindObject is a plain object with no payload.
	KindObject Kind = iota
	// KindBoolean is a *Boolean.
	KindBoolean
	// KindInteger is an *Integer.
	KindInteger
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Header carries the identity and kind shared by every object, and supplies
// the default capability methods. Concrete kinds embed it and override Equal
// and String.
type Header struct {
	id   identity.ID
	kind Kind
}

// newHeader allocates a fresh identity for an object of the given kind.
// Identities come from identity.Default, read at call time.
// Panics with an *Error if the identity space is exhausted.
func newHeader(kind Kind) Header {
	id, err := identity.Next()
	if err != nil {
		panic(newExhaustedError(kind, err))
	}
	return Header{id: id, kind: kind}
}

// ID returns the object's identity.
func (h Header) ID() identity.ID {
	return h.id
}

// Kind returns the object's kind.
func (h Header) Kind() Kind {
	return h.kind
}

// IsIdentical reports whether other has the same identity.
func (h Header) IsIdentical(other Object) bool {
	return !isNil(other) && h.id == other.ID()
}

// Equal defaults to identity.
func (h Header) Equal(other Object) bool {
	return h.IsIdentical(other)
}

// String renders "a <Kind> #<id>".
func (h Header) String() string {
	return fmt.Sprintf("a %s %s", h.kind, h.id)
}

func (Header) object() {}

// New creates a plain object with no payload. Its equality is identity and
// it displays with the default rendering.
func New() Object {
	return &plain{newHeader(KindObject)}
}

type plain struct {
	Header
}

// Identical reports whether x and y are the same object.
// Two nils are identical.
func Identical(x, y Object) bool {
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	return x.ID() == y.ID()
}

// Equal reports value equality of x and y.
//
// Booleans compare variants and integers compare payloads. Any other
// combination, including mixed kinds, is false unless x and y are identical.
func Equal(x, y Object) bool {
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	switch a := x.(type) {
	case *Boolean:
		b, ok := y.(*Boolean)
		return ok && a.truth == b.truth
	case *Integer:
		b, ok := y.(*Integer)
		return ok && a.value == b.value
	default:
		return Identical(x, y)
	}
}

// isNil reports whether o is nil or a nil pointer of a known kind.
func isNil(o Object) bool {
	switch v := o.(type) {
	case nil:
		return true
	case *Boolean:
		return v == nil
	case *Integer:
		return v == nil
	case *plain:
		return v == nil
	}
	return false
}

// Display returns the display string of o, or "nil".
func Display(o Object) string {
	if isNil(o) {
		return "nil"
	}
	return o.String()
}

// AsBoolean returns o as a *Boolean if it is one.
func AsBoolean(o Object) (*Boolean, bool) {
	b, ok := o.(*Boolean)
	return b, ok && b != nil
}

// AsInteger returns o as an *Integer if it is one.
func AsInteger(o Object) (*Integer, bool) {
	i, ok := o.(*Integer)
	return i, ok && i != nil
}
