package object

import (
	"math"
	"strconv"
)

// Integer is an immutable int64 value.
type Integer struct {
	Header
	value int64
}

// NewInteger creates an Integer holding v with a fresh identity.
func NewInteger(v int64) *Integer {
	return &Integer{
		Header: newHeader(KindInteger),
		value:  v,
	}
}

// Value returns the payload.
func (i *Integer) Value() int64 {
	return i.value
}

// Add returns a new Integer holding i + other.
// Returns an ARITHMETIC_OVERFLOW error if the sum does not fit in int64.
func (i *Integer) Add(other *Integer) (*Integer, error) {
	x, y := i.value, other.value
	if (y > 0 && x > math.MaxInt64-y) || (y < 0 && x < math.MinInt64-y) {
		return nil, newOverflowError("add", x, y)
	}
	return NewInteger(x + y), nil
}

// Subtract returns a new Integer holding i - other.
// Returns an ARITHMETIC_OVERFLOW error if the difference does not fit in int64.
func (i *Integer) Subtract(other *Integer) (*Integer, error) {
	x, y := i.value, other.value
	if (y < 0 && x > math.MaxInt64+y) || (y > 0 && x < math.MinInt64+y) {
		return nil, newOverflowError("subtract", x, y)
	}
	return NewInteger(x - y), nil
}

// LessThan reports whether i is strictly less than other.
func (i *Integer) LessThan(other *Integer) bool {
	return i.value < other.value
}

// Equal reports whether other is an Integer with the same payload.
func (i *Integer) Equal(other Object) bool {
	return Equal(i, other)
}

// String renders the payload in decimal.
func (i *Integer) String() string {
	return strconv.FormatInt(i.value, 10)
}
