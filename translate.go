package vmsim

import "fmt"

// Translation is the result of resolving a virtual address
// against a [Step]'s snapshot.
type Translation struct {
	Page   int `json:"pageNumber"`
	Offset int `json:"offset"`
	// Frame and PhysicalAddress are [None] when Fault is true.
	Frame           int  `json:"frame"`
	PhysicalAddress int  `json:"physicalAddress"`
	TLBHit          bool `json:"tlbHit"`
	Fault           bool `json:"pageFault"`
}

// Translate resolves virtualAddress for process using the TLB and frame
// snapshots recorded in step. step is not modified and no simulation state
// changes; a non-resident page is reported as a fault, not loaded.
func Translate(step Step, process, virtualAddress, pageSize int) (Translation, error) {
	if pageSize <= 0 {
		return Translation{}, fmt.Errorf(
			"%w: page size must be positive but %d was requested",
			ErrInvalidAddress, pageSize)
	}
	if virtualAddress < 0 {
		return Translation{}, fmt.Errorf(
			"%w: virtual address must be non-negative but %d was requested",
			ErrInvalidAddress, virtualAddress)
	}
	translation := Translation{
		Page:            virtualAddress / pageSize,
		Offset:          virtualAddress % pageSize,
		Frame:           None,
		PhysicalAddress: None,
	}
	for _, entry := range step.TLB {
		if entry.Page == translation.Page && entry.Process == process {
			translation.TLBHit = true
			translation.Frame = entry.Frame
			break
		}
	}
	if !translation.TLBHit {
		frame, ok := step.Frames.Find(translation.Page, process)
		if !ok {
			translation.Fault = true
			return translation, nil
		}
		translation.Frame = frame
	}
	translation.PhysicalAddress = translation.Frame*pageSize + translation.Offset
	return translation, nil
}
