package vmsim_test

import (
	"slices"
	"testing"

	"github.com/djdv/go-vmsim"
)

func TestWindow(t *testing.T) {
	t.Run("invalid limit", invalidWindow)
	t.Run("fill", windowFill)
	t.Run("wrap", windowWrap)
	t.Run("clone", windowClone)
	t.Run("thrashing", thrashing)
}

func newWindow(tb testing.TB, limit int) *vmsim.Window {
	tb.Helper()
	window, err := vmsim.NewWindow(limit)
	if err != nil {
		tb.Fatal(err)
	}
	return window
}

func checkInts(tb testing.TB, got, want []int, msg string) {
	tb.Helper()
	if slices.Equal(got, want) {
		return
	}
	tb.Fatalf(
		"%s"+
			"\n\tgot: %v"+
			"\n\twant: %v",
		msg, got, want)
}

func invalidWindow(t *testing.T) {
	t.Parallel()
	for _, limit := range []int{0, 1, vmsim.MaxWorkingSetWindow + 1} {
		if _, err := vmsim.NewWindow(limit); err == nil {
			t.Errorf("NewWindow accepted an invalid limit: %d", limit)
		}
	}
}

func windowFill(t *testing.T) {
	t.Parallel()
	window := newWindow(t, 4)
	checkInts(t, window.Pages(), nil, "empty window")
	for _, page := range []int{3, 1, 3} {
		window.Push(page)
	}
	checkEqual(t, window.Len(), 3, "length before full")
	checkInts(t, window.Pages(), []int{3, 1, 3}, "pages before full")
	checkInts(t, window.Distinct(), []int{1, 3}, "distinct before full")
}

func windowWrap(t *testing.T) {
	t.Parallel()
	window := newWindow(t, 3)
	for _, page := range []int{0, 1, 2, 3, 4} {
		window.Push(page)
	}
	checkEqual(t, window.Len(), 3, "length after wrap")
	checkInts(t, window.Pages(), []int{2, 3, 4}, "oldest references displaced")
	checkInts(t, window.Distinct(),
		vmsim.WorkingSet(vmsim.Reads(0, 1, 2, 3, 4), 4, 3),
		"window matches trace working set")
}

func windowClone(t *testing.T) {
	t.Parallel()
	window := newWindow(t, 2)
	window.Push(5)
	window.Push(6)
	clone := window.Clone()
	clone.Push(7)
	checkInts(t, window.Pages(), []int{5, 6}, "original after modifying clone")
	checkInts(t, clone.Pages(), []int{6, 7}, "clone after push")
}

func thrashing(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		index, faults int
		want          bool
	}{
		{index: 5, faults: 6, want: false}, // Still warming up.
		{index: 6, faults: 4, want: true},
		{index: 7, faults: 4, want: false}, // Exactly half.
		{index: 9, faults: 9, want: true},
		{index: 20, faults: 3, want: false},
	} {
		step := vmsim.Step{
			Index: test.index,
			Stats: vmsim.Stats{
				PageFaults: test.faults,
				PageHits:   test.index + 1 - test.faults,
			},
		}
		checkEqual(t, vmsim.Thrashing(step), test.want,
			"thrashing signal")
	}
	timeline := mustRun(t,
		newConfig(2, vmsim.FIFO), singleProcess(8),
		vmsim.Reads(0, 1, 2, 3, 4, 5, 6, 7),
	)
	checkInts(t, timeline.ThrashingSteps(), []int{6, 7}, "thrashing steps")
}
