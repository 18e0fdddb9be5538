package vmsim

import (
	"slices"

	"github.com/djdv/go-vmsim/internal/ring"
)

// Window holds the most recent pages referenced,
// up to a fixed limit.
// Constructed by [NewWindow].
type Window struct {
	newest        *ring.Ring[int]
	length, limit int
}

// NewWindow creates an empty window retaining the last limit references.
func NewWindow(limit int) (*Window, error) {
	if limit < MinWorkingSetWindow || limit > MaxWorkingSetWindow {
		return nil, rangeError(ErrInvalidConfig,
			"workingSetWindow", limit,
			MinWorkingSetWindow, MaxWorkingSetWindow)
	}
	return &Window{limit: limit}, nil
}

// Push records a reference to page, displacing the oldest
// reference when the window is full.
func (w *Window) Push(page int) {
	if w.length == w.limit {
		oldest := w.newest.Next()
		oldest.Value = page
		w.newest = oldest
		return
	}
	element := &ring.Ring[int]{Value: page}
	if w.newest == nil {
		element.Next() // Initialize as a one-element ring.
	} else {
		w.newest.Link(element)
	}
	w.newest = element
	w.length++
}

// Len returns the number of references held.
func (w *Window) Len() int { return w.length }

// Pages returns the held references, oldest first.
func (w *Window) Pages() []int {
	if w.newest == nil {
		return nil
	}
	return slices.Collect(w.newest.Next().Values())
}

// Distinct returns the working set: the distinct pages
// in the window, in ascending order.
func (w *Window) Distinct() []int {
	pages := w.Pages()
	slices.Sort(pages)
	return slices.Compact(pages)
}

// Clone returns an independent copy of the window.
func (w *Window) Clone() *Window {
	clone := &Window{limit: w.limit}
	for _, page := range w.Pages() {
		clone.Push(page)
	}
	return clone
}

// WorkingSet returns the distinct pages referenced in
// trace[max(0, index-window+1) : index+1], in ascending order.
func WorkingSet(trace []Reference, index, window int) []int {
	var (
		start = max(0, index-window+1)
		pages = make([]int, 0, index+1-start)
	)
	for _, reference := range trace[start : index+1] {
		pages = append(pages, reference.Page)
	}
	slices.Sort(pages)
	return slices.Compact(pages)
}
