package object

// Boolean is one of two variants, true or false, fixed at construction.
//
// Logic is eager: And and Or always take an already constructed operand.
type Boolean struct {
	Header
	truth bool
}

// NewTrue creates a Boolean of the true variant with a fresh identity.
func NewTrue() *Boolean {
	return NewBoolean(true)
}

// NewFalse creates a Boolean of the false variant with a fresh identity.
func NewFalse() *Boolean {
	return NewBoolean(false)
}

// NewBoolean creates a Boolean of the variant matching v.
func NewBoolean(v bool) *Boolean {
	return &Boolean{
		Header: newHeader(KindBoolean),
		truth:  v,
	}
}

// IsTrue reports whether b is the true variant.
func (b *Boolean) IsTrue() bool {
	return b.truth
}

// And is true only if both b and x are true. A false receiver never
// inspects x; a nil x counts as false.
func (b *Boolean) And(x *Boolean) bool {
	if !b.truth {
		return false
	}
	return x != nil && x.truth
}

// Or is true if either b or x is true. A true receiver never inspects x;
// a nil x counts as false.
func (b *Boolean) Or(x *Boolean) bool {
	if b.truth {
		return true
	}
	return x != nil && x.truth
}

// Not returns the opposite variant.
func (b *Boolean) Not() bool {
	return !b.truth
}

// Equal reports whether other is a Boolean of the same variant.
func (b *Boolean) Equal(other Object) bool {
	return Equal(b, other)
}

// String returns "true" or "false".
func (b *Boolean) String() string {
	if b.truth {
		return "true"
	}
	return "false"
}
