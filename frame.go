package vmsim

import "iter"

// None marks an absent page, process, frame, or step index.
const None = -1

type (
	// Frame is a physical memory slot.
	// Page, Process, LoadTime, and LastAccess are [None] while the frame is free.
	Frame struct {
		ID          int  `json:"frameId"`
		Page        int  `json:"page"`
		Process     int  `json:"ownerProcessId"`
		Dirty       bool `json:"dirty"`
		Referenced  bool `json:"referenced"`
		LoadTime    int  `json:"loadTime"`
		LastAccess  int  `json:"lastAccess"`
		AccessCount int  `json:"accessCount"`
	}
	// FrameTable is the set of physical frames, indexed by frame ID.
	FrameTable []Frame
)

func freeFrame(id int) Frame {
	return Frame{
		ID:         id,
		Page:       None,
		Process:    None,
		LoadTime:   None,
		LastAccess: None,
	}
}

// Free reports whether the frame holds no page.
func (f Frame) Free() bool { return f.Page == None }

func (f Frame) holds(page, process int) bool {
	return f.Page == page && f.Process == process
}

// touch records a hit on the frame at step.
func (f *Frame) touch(step int, write bool) {
	f.LastAccess = step
	f.AccessCount++
	f.Referenced = true
	f.Dirty = f.Dirty || write
}

// load overwrites the frame with a freshly faulted page.
func (f *Frame) load(page, process, step int, write bool) {
	*f = Frame{
		ID:          f.ID,
		Page:        page,
		Process:     process,
		Dirty:       write,
		Referenced:  true,
		LoadTime:    step,
		LastAccess:  step,
		AccessCount: 1,
	}
}

// NewFrameTable returns count free frames.
func NewFrameTable(count int) FrameTable {
	frames := make(FrameTable, count)
	for i := range frames {
		frames[i] = freeFrame(i)
	}
	return frames
}

// Clone returns a deep copy of the table.
func (ft FrameTable) Clone() FrameTable {
	return append(FrameTable(nil), ft...)
}

// Find returns the ID of the frame holding (page, process).
func (ft FrameTable) Find(page, process int) (int, bool) {
	for i := range ft {
		if ft[i].holds(page, process) {
			return i, true
		}
	}
	return None, false
}

// FirstFree returns the lowest free frame ID.
func (ft FrameTable) FirstFree() (int, bool) {
	for i := range ft {
		if ft[i].Free() {
			return i, true
		}
	}
	return None, false
}

// Occupied returns the number of frames holding a page.
func (ft FrameTable) Occupied() int {
	var count int
	for range ft.Resident() {
		count++
	}
	return count
}

// Resident returns an iterator over occupied frames in frame ID order.
func (ft FrameTable) Resident() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for _, frame := range ft {
			if frame.Free() {
				continue
			}
			if !yield(frame) {
				return
			}
		}
	}
}

// release frees every frame owned by process,
// returning the IDs of the frames freed.
func (ft FrameTable) release(process int) []int {
	var released []int
	for i := range ft {
		if !ft[i].Free() && ft[i].Process == process {
			ft[i] = freeFrame(i)
			released = append(released, i)
		}
	}
	return released
}
