// Package object implements the value kernel: the Object capability shared by
// every value, and the two concrete kinds built on it, Boolean and Integer.
//
// Identity and equality are deliberately separate:
//   - Identity: each construction takes a fresh identity.ID. Two objects are
//     identical only if they are the same construction.
//   - Equality: Boolean compares variants and Integer compares payloads.
//     Equality across kinds is always false.
//
// Booleans are NOT singletons. NewTrue returns a new object every time; two
// results are Equal but not IsIdentical.
//
// All objects are immutable. Arithmetic returns new objects and never touches
// its operands, so objects may be shared freely between goroutines.
//
// Error handling:
//   - Add and Subtract are checked and return an *Error with code
//     ARITHMETIC_OVERFLOW instead of wrapping.
//   - Constructors panic with an *Error with code IDENTITY_EXHAUSTED if the
//     identity allocator has run out. Nothing else in the package panics.
package object
