package vmsim

import (
	"fmt"
	"log/slog"
	"slices"
)

type (
	// State is everything a simulation carries from one reference to the next.
	// Constructed by [NewState].
	State struct {
		config    Config
		processes []Process
		active    Process
		frames    FrameTable
		tlb       *TLB
		window    *Window
		future    *Lookahead // Read-only; shared between clones.
		logger    *slog.Logger
		stats     Stats
		hand      int
		position  int
	}
	// Option customizes a [State] or [Simulation].
	Option func(*settings)

	settings struct {
		logger *slog.Logger
	}
)

// WithLogger sets the logger that receives
// debug records for faults, evictions, and context switches.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// NewState validates config and returns the initial state:
// every frame free, the TLB empty, the clock hand at frame 0.
// trace is the complete reference trace (used by [Optimal] to look ahead);
// it may be nil if the state will only be driven by [Advance]
// with references that are not known in advance.
func NewState(config Config, processes []Process, trace []Reference, options ...Option) (*State, error) {
	if err := config.Validate(processes); err != nil {
		return nil, err
	}
	settings := settings{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, apply := range options {
		apply(&settings)
	}
	active, _ := lookupProcess(processes, config.ActiveProcess)
	tlb, err := NewTLB(config.TLBSize)
	if err != nil {
		return nil, err
	}
	window, err := NewWindow(config.WorkingSetWindow)
	if err != nil {
		return nil, err
	}
	return &State{
		config:    config,
		processes: slices.Clone(processes),
		active:    active,
		frames:    NewFrameTable(config.NumFrames),
		tlb:       tlb,
		window:    window,
		future:    NewLookahead(trace),
		logger:    settings.logger,
	}, nil
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	clone := *s
	clone.frames = s.frames.Clone()
	clone.tlb = s.tlb.Clone()
	clone.window = s.window.Clone()
	return &clone
}

// Advance processes reference against a copy of state
// and returns the copy along with the resulting step.
// state is not modified. On error, next is nil.
func Advance(state *State, reference Reference) (next *State, step Step, err error) {
	next = state.Clone()
	if step, err = next.access(reference); err != nil {
		return nil, Step{}, err
	}
	return next, step, nil
}

// Frames returns a copy of the frame table.
func (s *State) Frames() FrameTable { return s.frames.Clone() }

// TLB returns a copy of the TLB entries, oldest first.
func (s *State) TLB() []TLBEntry { return s.tlb.Entries() }

// Stats returns the cumulative counters.
func (s *State) Stats() Stats { return s.stats }

// Position returns the index the next reference will be assigned.
func (s *State) Position() int { return s.position }

// ActiveProcess returns the process issuing references.
func (s *State) ActiveProcess() Process { return s.active }

// Hand returns the clock hand.
func (s *State) Hand() int { return s.hand }

// PageTable returns the page table of process id,
// derived from the current frames.
func (s *State) PageTable(id int) ([]PageTableEntry, error) {
	process, err := lookupProcess(s.processes, id)
	if err != nil {
		return nil, err
	}
	return PageTable(s.frames, process), nil
}

// access folds reference into s. Nothing is modified if reference is
// outside of the active process's address space.
func (s *State) access(reference Reference) (Step, error) {
	var (
		index   = s.position
		process = s.active.ID
		page    = reference.Page
	)
	if err := checkBounds(reference, s.active, index); err != nil {
		return Step{}, err
	}
	step := Step{
		Index:         index,
		Process:       process,
		Page:          page,
		Write:         reference.Write,
		VictimPage:    None,
		VictimProcess: None,
		VictimFrame:   None,
		HitTLBSlot:    None,
	}
	if frame, slot, ok := s.tlb.Lookup(page, process); ok {
		s.frames[frame].touch(index, reference.Write)
		s.stats.PageHits++
		s.stats.TLBHits++
		step.Hit, step.TLBHit = true, true
		step.HitFrame, step.HitTLBSlot = frame, slot
		step.Explanation = fmt.Sprintf(
			"TLB hit: page %d of process %d is in frame %d (TLB slot %d)",
			page, process, frame, slot)
	} else {
		s.stats.TLBMisses++
		if frame, ok := s.frames.Find(page, process); ok {
			s.frames[frame].touch(index, reference.Write)
			s.tlb.Insert(page, frame, process)
			s.stats.PageHits++
			step.Hit, step.HitFrame = true, frame
			step.Explanation = fmt.Sprintf(
				"TLB miss, page table hit: page %d of process %d is in frame %d",
				page, process, frame)
		} else {
			s.fault(&step)
		}
	}
	s.window.Push(page)
	s.position++
	step.Frames = s.frames.Clone()
	step.TLB = s.tlb.Entries()
	step.Stats = s.stats
	step.WorkingSet = s.window.Distinct()
	step.WorkingSetSize = len(step.WorkingSet)
	if debugging {
		s.checkInvariants()
	}
	return step, nil
}

func (s *State) fault(step *Step) {
	var (
		index   = step.Index
		page    = step.Page
		process = step.Process
	)
	s.stats.PageFaults++
	s.stats.DiskReads++
	frame, free := s.frames.FirstFree()
	if free {
		step.Explanation = fmt.Sprintf(
			"page fault: loaded page %d of process %d into free frame %d",
			page, process, frame)
	} else {
		frame = s.evict(step)
	}
	s.frames[frame].load(page, process, index, step.Write)
	s.tlb.Insert(page, frame, process)
	step.Fault, step.HitFrame = true, frame
	s.logger.Debug("page fault",
		"step", index, "process", process, "page", page,
		"frame", frame, "victim", step.VictimPage)
}

// evict selects and empties a victim frame, returning its ID.
func (s *State) evict(step *Step) int {
	selection := SelectVictim(s.frames, s.config.Policy,
		s.hand, s.future, step.Index)
	for _, cleared := range selection.Cleared {
		s.frames[cleared].Referenced = false
	}
	s.hand = selection.Hand
	var (
		frame     = selection.Frame
		victim    = s.frames[frame]
		writeBack string
	)
	if victim.Dirty {
		s.stats.DiskWrites++
		writeBack = " after writing it back"
	}
	s.stats.Replacements++
	s.tlb.EvictFrame(frame)
	step.VictimPage = victim.Page
	step.VictimProcess = victim.Process
	step.VictimFrame = frame
	step.Explanation = fmt.Sprintf(
		"page fault: %s evicted page %d of process %d from frame %d%s, loaded page %d of process %d",
		s.config.Policy, victim.Page, victim.Process, frame, writeBack,
		step.Page, step.Process)
	s.logger.Debug("evicted page",
		"step", step.Index, "policy", s.config.Policy,
		"frame", frame, "page", victim.Page,
		"process", victim.Process, "dirty", victim.Dirty)
	return frame
}

// SwitchProcess makes process id the active process.
// The whole TLB is flushed; frames are left untouched.
func (s *State) SwitchProcess(id int) error {
	process, err := lookupProcess(s.processes, id)
	if err != nil {
		return err
	}
	s.tlb.Flush()
	s.stats.ContextSwitches++
	s.logger.Debug("context switch",
		"from", s.active.ID, "to", process.ID)
	s.active = process
	return nil
}

// ReleaseProcess frees every frame owned by process id
// and drops its TLB entries, returning the number of frames freed.
func (s *State) ReleaseProcess(id int) (int, error) {
	if _, err := lookupProcess(s.processes, id); err != nil {
		return 0, err
	}
	released := s.frames.release(id)
	for _, frame := range released {
		s.tlb.EvictFrame(frame)
	}
	s.logger.Debug("released process",
		"process", id, "frames", len(released))
	return len(released), nil
}

func (s *State) checkInvariants() {
	assert(s.frames.Occupied() <= s.config.NumFrames,
		"more occupied frames than physical frames")
	assert(s.tlb.Len() <= s.config.TLBSize,
		"TLB exceeds its size")
	for _, entry := range s.tlb.Entries() {
		frame := s.frames[entry.Frame]
		assert(!frame.Free() && frame.holds(entry.Page, entry.Process),
			"TLB entry is not backed by its frame")
	}
	assert(s.stats.PageFaults+s.stats.PageHits == s.position,
		"every reference must be a fault or a hit")
	assert(s.stats.DiskReads == s.stats.PageFaults,
		"disk reads diverge from page faults")
}
