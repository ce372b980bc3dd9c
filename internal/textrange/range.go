// Package textrange defines the index/length range used to address
// positions in a document's linear index space.
package textrange

import "fmt"

// Range is a span of Length units starting at Index.
// Index 0 is the start of the document.
type Range struct {
	Index  int
	Length int
}

// New creates a range. Negative values are clamped to zero.
func New(index, length int) Range {
	if index < 0 {
		index = 0
	}
	if length < 0 {
		length = 0
	}
	return Range{Index: index, Length: length}
}

// End returns the index one past the last unit of the range.
func (r Range) End() int {
	return r.Index + r.Length
}

// Collapsed returns true if the range has no extent.
func (r Range) Collapsed() bool {
	return r.Length == 0
}

// Equal returns true if both ranges have the same index and length.
func (r Range) Equal(other Range) bool {
	return r.Index == other.Index && r.Length == other.Length
}

// Clone returns a copy of r, or nil if r is nil.
func (r *Range) Clone() *Range {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// String returns a string representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("Range(%d+%d)", r.Index, r.Length)
}

// Equal compares two possibly-nil ranges. Two nil ranges are equal;
// a nil and a non-nil range are not.
func Equal(a, b *Range) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
