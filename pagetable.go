package vmsim

// PageTableEntry describes one virtual page of a process.
// Fields other than Page and Valid mirror the frame holding the page;
// they are [None] or zero while the page is not resident.
type PageTableEntry struct {
	Page        int  `json:"page"`
	Frame       int  `json:"frameNumber"`
	Valid       bool `json:"valid"`
	Dirty       bool `json:"dirty"`
	Referenced  bool `json:"referenced"`
	LoadTime    int  `json:"loadTime"`
	LastAccess  int  `json:"lastAccess"`
	AccessCount int  `json:"accessCount"`
}

// PageTable derives the page table of process from frames.
// It has one entry per page in the process's address space.
func PageTable(frames FrameTable, process Process) []PageTableEntry {
	table := make([]PageTableEntry, process.PageCount)
	for page := range table {
		table[page] = PageTableEntry{
			Page:       page,
			Frame:      None,
			LoadTime:   None,
			LastAccess: None,
		}
	}
	for frame := range frames.Resident() {
		if frame.Process != process.ID ||
			frame.Page >= process.PageCount {
			continue
		}
		table[frame.Page] = PageTableEntry{
			Page:        frame.Page,
			Frame:       frame.ID,
			Valid:       true,
			Dirty:       frame.Dirty,
			Referenced:  frame.Referenced,
			LoadTime:    frame.LoadTime,
			LastAccess:  frame.LastAccess,
			AccessCount: frame.AccessCount,
		}
	}
	return table
}
