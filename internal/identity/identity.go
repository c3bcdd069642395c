// Package identity issues the unique object identities of the kernel.
//
// Every object owns exactly one ID, taken from an Allocator at construction.
// IDs are never reused and never freed. Zero is never issued, so a zero ID
// always means "no identity".
//
// The allocator counter is the only shared mutable state in the kernel.
package identity

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrExhausted is returned once the last representable ID has been issued.
// The counter never wraps, so the allocator stays exhausted from then on.
var ErrExhausted = errors.New("identity space exhausted")

// ID is an opaque object identity.
type ID uint64

// Valid reports whether the ID was issued by an allocator.
func (id ID) Valid() bool {
	return id != 0
}

// String renders the ID as "#n".
func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// Allocator issues strictly increasing IDs.
//
// Thread-safety: Allocator is safe for concurrent use. Next is a
// compare-and-swap loop, so no two calls return the same ID and an
// exhausted counter is never advanced past math.MaxUint64.
type Allocator struct {
	last atomic.Uint64
}

// NewAllocator creates an allocator whose first ID is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewAllocatorAt creates an allocator that resumes after last.
// The next ID issued is last+1.
func NewAllocatorAt(last ID) *Allocator {
	a := &Allocator{}
	a.last.Store(uint64(last))
	return a
}

// Next returns a fresh ID, or ErrExhausted if none remain.
func (a *Allocator) Next() (ID, error) {
	for {
		cur := a.last.Load()
		if cur == math.MaxUint64 {
			return 0, ErrExhausted
		}
		if a.last.CompareAndSwap(cur, cur+1) {
			return ID(cur + 1), nil
		}
	}
}

// Current returns the last issued ID without issuing a new one.
// A fresh allocator reports 0.
func (a *Allocator) Current() ID {
	return ID(a.last.Load())
}

// Default is the process-wide allocator behind object construction.
// Replace it only while no objects are being constructed.
var Default = NewAllocator()

// Next issues an ID from Default.
func Next() (ID, error) {
	return Default.Next()
}
