package vmsim

import (
	"math"

	"github.com/google/btree"
)

// Lookahead indexes the positions at which each page is referenced in a trace.
// It is read-only once built and may be shared between runs.
type Lookahead struct {
	positions map[int]*btree.BTreeG[int]
}

// btreeDegree is small since a page rarely
// appears more than a few hundred times.
const btreeDegree = 8

// NewLookahead indexes trace.
func NewLookahead(trace []Reference) *Lookahead {
	positions := make(map[int]*btree.BTreeG[int])
	for i, reference := range trace {
		tree, ok := positions[reference.Page]
		if !ok {
			tree = btree.NewOrderedG[int](btreeDegree)
			positions[reference.Page] = tree
		}
		tree.ReplaceOrInsert(i)
	}
	return &Lookahead{positions: positions}
}

// NextUse returns the first position after position at which page
// is referenced, or [math.MaxInt] if it is never referenced again.
func (l *Lookahead) NextUse(page, position int) int {
	next := math.MaxInt
	tree, ok := l.positions[page]
	if !ok {
		return next
	}
	tree.AscendGreaterOrEqual(position+1, func(found int) bool {
		next = found
		return false
	})
	return next
}
