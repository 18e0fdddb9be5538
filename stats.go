package vmsim

type (
	// Stats are cumulative counters; they never decrease within a run.
	Stats struct {
		PageFaults      int `json:"pageFaults"`
		PageHits        int `json:"pageHits"`
		TLBHits         int `json:"tlbHits"`
		TLBMisses       int `json:"tlbMisses"`
		DiskReads       int `json:"diskReads"`
		DiskWrites      int `json:"diskWrites"`
		Replacements    int `json:"replacements"`
		ContextSwitches int `json:"contextSwitches"`
	}
	// Step is the state observed after processing one reference.
	// Steps are never modified after creation.
	Step struct {
		Index   int  `json:"step"`
		Process int  `json:"processId"`
		Page    int  `json:"page"`
		Write   bool `json:"write"`
		Fault   bool `json:"isFault"`
		Hit     bool `json:"isHit"`
		TLBHit  bool `json:"tlbHit"`
		// Victim fields are [None] unless a resident page was evicted.
		VictimPage    int `json:"victimPage"`
		VictimProcess int `json:"victimProcessId"`
		VictimFrame   int `json:"victimFrame"`
		// HitFrame is the frame that served (or received) the page.
		HitFrame int `json:"hitFrame"`
		// HitTLBSlot is the TLB slot that served a TLB hit, otherwise [None].
		HitTLBSlot     int        `json:"hitTlbSlot"`
		Frames         FrameTable `json:"frameTable"`
		TLB            []TLBEntry `json:"tlb"`
		Stats          Stats      `json:"stats"`
		WorkingSetSize int        `json:"workingSetSize"`
		WorkingSet     []int      `json:"workingSet"`
		Explanation    string     `json:"explanation"`
	}
	// Timeline is the ordered steps of a run, one per reference.
	Timeline []Step
)

// FaultRate returns faults per reference.
func (s Stats) FaultRate() float64 {
	return ratio(s.PageFaults, s.PageFaults+s.PageHits)
}

// HitRatio returns hits per reference.
func (s Stats) HitRatio() float64 {
	return ratio(s.PageHits, s.PageFaults+s.PageHits)
}

// TLBHitRatio returns TLB hits per TLB lookup.
func (s Stats) TLBHitRatio() float64 {
	return ratio(s.TLBHits, s.TLBHits+s.TLBMisses)
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// Stats returns the counters of the last step.
func (t Timeline) Stats() Stats {
	if len(t) == 0 {
		return Stats{}
	}
	return t[len(t)-1].Stats
}

// Victims returns the page evicted at each step, or [None].
func (t Timeline) Victims() []int {
	victims := make([]int, len(t))
	for i, step := range t {
		victims[i] = step.VictimPage
	}
	return victims
}

// ThrashingSteps returns the indices of the steps
// at which [Thrashing] reports true.
func (t Timeline) ThrashingSteps() []int {
	var steps []int
	for _, step := range t {
		if Thrashing(step) {
			steps = append(steps, step.Index)
		}
	}
	return steps
}

// Thrashing reports whether more than half of the references
// up to and including step faulted, once past the sixth reference.
func Thrashing(step Step) bool {
	const (
		faultRateLimit = 0.5
		warmUp         = 5
	)
	references := step.Index + 1
	return step.Index > warmUp &&
		float64(step.Stats.PageFaults)/float64(references) > faultRateLimit
}
