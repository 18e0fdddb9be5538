// Package ring is a specialized adaption of `container/ring`
// for bounded windows of recent values.
package ring

import "iter"

// A Ring is an element of a circular list, or ring.
// Rings do not have a beginning or end; a pointer to any ring element
// serves as reference to the entire ring. Empty rings are represented
// as nil Ring pointers. The zero value for a Ring is a one-element
// ring with a zero Value.
type Ring[Value any] struct {
	next, prev *Ring[Value]
	Value      Value
}

func (r *Ring[Value]) init() *Ring[Value] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element. r must not be empty.
func (r *Ring[Value]) Next() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element. r must not be empty.
func (r *Ring[Value]) Prev() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
// r must not be empty.
//
// If r and s point to different rings, linking
// them creates a single ring with the elements of s inserted
// after r. The result points to the element following the
// last element of s after insertion.
func (r *Ring[Value]) Link(s *Ring[Value]) *Ring[Value] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Len computes the number of elements in ring r.
// It executes in time proportional to the number of elements.
func (r *Ring[Value]) Len() int {
	n := 0
	if r != nil {
		n = 1
		for p := r.Next(); p != r; p = p.next {
			n++
		}
	}
	return n
}

// Values returns an iterator over the ring's values in forward order,
// starting at r. The behavior is undefined if the ring changes
// during iteration.
func (r *Ring[Value]) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if r == nil ||
			!yield(r.Value) {
			return
		}
		for p := r.Next(); p != r; p = p.next {
			if !yield(p.Value) {
				return
			}
		}
	}
}
