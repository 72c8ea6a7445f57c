package filter

import "bytes"

// BoundKind describes one side of a range.
type BoundKind int

const (
	// Unbounded leaves the side of the range open-ended.
	Unbounded BoundKind = iota
	// Open excludes the bound value.
	Open
	// Closed includes the bound value.
	Closed
)

func (k BoundKind) String() string {
	switch k {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unbounded"
	}
}

// Bound is the set of value types a range can be built over.
type Bound interface {
	[]byte | int64
}

// Endpoint is one side of a range. Value is meaningless when Kind is Unbounded.
type Endpoint[T Bound] struct {
	Kind  BoundKind
	Value T
}

// RangeDescriptor is a start/end bound pair. No ordering between the two
// sides is enforced; the store rejects empty or inverted ranges itself.
type RangeDescriptor[T Bound] struct {
	Start Endpoint[T]
	End   Endpoint[T]
}

func (r RangeDescriptor[T]) clone() RangeDescriptor[T] {
	r.Start.Value = cloneBound(r.Start.Value)
	r.End.Value = cloneBound(r.End.Value)
	return r
}

// cloneBound copies byte bounds so descriptors never alias caller memory.
func cloneBound[T Bound](v T) T {
	if b, ok := any(v).([]byte); ok {
		return any(bytes.Clone(b)).(T)
	}
	return v
}

// RangeBuilder accumulates the bounds of a range and builds the expression E
// that owns it. Builders are values: every setter returns an updated copy and
// leaves the receiver untouched.
//
// Setting a side that was already set replaces the previous bound, whether it
// was open or closed. A RangeBuilder must be obtained from a Builder; the zero
// value cannot Build.
type RangeBuilder[T Bound, E Expression] struct {
	bounds RangeDescriptor[T]
	wrap   func(RangeDescriptor[T]) E
}

func newRangeBuilder[T Bound, E Expression](wrap func(RangeDescriptor[T]) E) RangeBuilder[T, E] {
	return RangeBuilder[T, E]{wrap: wrap}
}

// StartOpen sets an exclusive lower bound.
func (b RangeBuilder[T, E]) StartOpen(v T) RangeBuilder[T, E] {
	b.bounds.Start = Endpoint[T]{Kind: Open, Value: cloneBound(v)}
	return b
}

// StartClosed sets an inclusive lower bound.
func (b RangeBuilder[T, E]) StartClosed(v T) RangeBuilder[T, E] {
	b.bounds.Start = Endpoint[T]{Kind: Closed, Value: cloneBound(v)}
	return b
}

// EndOpen sets an exclusive upper bound.
func (b RangeBuilder[T, E]) EndOpen(v T) RangeBuilder[T, E] {
	b.bounds.End = Endpoint[T]{Kind: Open, Value: cloneBound(v)}
	return b
}

// EndClosed sets an inclusive upper bound.
func (b RangeBuilder[T, E]) EndClosed(v T) RangeBuilder[T, E] {
	b.bounds.End = Endpoint[T]{Kind: Closed, Value: cloneBound(v)}
	return b
}

// Descriptor returns the bounds accumulated so far.
func (b RangeBuilder[T, E]) Descriptor() RangeDescriptor[T] {
	return b.bounds.clone()
}

// Build returns the range expression.
func (b RangeBuilder[T, E]) Build() E {
	return b.wrap(b.bounds.clone())
}
