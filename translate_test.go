package vmsim_test

import (
	"errors"
	"testing"

	"github.com/djdv/go-vmsim"
)

func TestTranslate(t *testing.T) {
	t.Run("invalid", translateInvalid)
	t.Run("tlb", translateTLB)
	t.Run("page table", translatePageTable)
	t.Run("fault", translateFault)
}

func translationStep(tb testing.TB) vmsim.Step {
	tb.Helper()
	config := newConfig(3, vmsim.FIFO)
	config.TLBSize = 1
	// Frames: 0 -> page 2, 1 -> page 0; TLB holds only page 0.
	timeline := mustRun(tb, config, singleProcess(4), vmsim.Reads(2, 0))
	return timeline[len(timeline)-1]
}

func translateInvalid(t *testing.T) {
	t.Parallel()
	step := translationStep(t)
	for _, test := range []struct {
		address, pageSize int
	}{
		{address: -1, pageSize: 4},
		{address: 0, pageSize: 0},
	} {
		_, err := vmsim.Translate(step, 1, test.address, test.pageSize)
		if !errors.Is(err, vmsim.ErrInvalidAddress) {
			t.Errorf("expected %v for %+v but got: %v",
				vmsim.ErrInvalidAddress, test, err)
		}
	}
}

func translateTLB(t *testing.T) {
	t.Parallel()
	const pageSize = 4
	got, err := vmsim.Translate(translationStep(t), 1, 3, pageSize)
	if err != nil {
		t.Fatal(err)
	}
	want := vmsim.Translation{
		Page:            0,
		Offset:          3,
		Frame:           1,
		PhysicalAddress: 1*pageSize + 3,
		TLBHit:          true,
	}
	checkEqual(t, got, want, "translation through the TLB")
}

func translatePageTable(t *testing.T) {
	t.Parallel()
	const pageSize = 4
	got, err := vmsim.Translate(translationStep(t), 1, 9, pageSize)
	if err != nil {
		t.Fatal(err)
	}
	want := vmsim.Translation{
		Page:            2,
		Offset:          1,
		Frame:           0,
		PhysicalAddress: 1,
	}
	checkEqual(t, got, want, "translation through the page table")
}

func translateFault(t *testing.T) {
	t.Parallel()
	step := translationStep(t)
	got, err := vmsim.Translate(step, 1, 13, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Fault || got.Frame != vmsim.None || got.PhysicalAddress != vmsim.None {
		t.Fatalf("expected a fault: %+v", got)
	}
	if again := translationStep(t); !sameFrames(step, again) {
		t.Fatal("translation modified the snapshot")
	}
	got, err = vmsim.Translate(step, 2, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Fault {
		t.Fatalf("page of another process must not translate: %+v", got)
	}
}

func sameFrames(a, b vmsim.Step) bool {
	if len(a.Frames) != len(b.Frames) {
		return false
	}
	for i := range a.Frames {
		if a.Frames[i] != b.Frames[i] {
			return false
		}
	}
	return true
}
