package vmsim

import "slices"

// Simulation steps through a reference trace.
// Concurrent access must be guarded by the caller.
// Constructed by [New].
type Simulation struct {
	state    *State
	trace    []Reference
	timeline Timeline
}

// New validates config, processes, and trace, and returns a simulation
// positioned before the first reference.
// Every reference must be within the active process's address space.
func New(config Config, processes []Process, trace []Reference, options ...Option) (*Simulation, error) {
	if err := config.Validate(processes); err != nil {
		return nil, err
	}
	active, _ := lookupProcess(processes, config.ActiveProcess)
	if err := validateTrace(trace, active); err != nil {
		return nil, err
	}
	trace = slices.Clone(trace)
	state, err := NewState(config, processes, trace, options...)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		state:    state,
		trace:    trace,
		timeline: make(Timeline, 0, len(trace)),
	}, nil
}

// Run simulates the whole trace and returns its timeline.
// Either the complete timeline or an error is returned, never both.
func Run(config Config, processes []Process, trace []Reference, options ...Option) (Timeline, error) {
	simulation, err := New(config, processes, trace, options...)
	if err != nil {
		return nil, err
	}
	for !simulation.Done() {
		if _, err := simulation.Next(); err != nil {
			return nil, err
		}
	}
	return simulation.timeline, nil
}

// Next processes the next reference in the trace.
// It returns [ErrTraceExhausted] once every reference has been processed.
// If the reference is outside the active process's address space
// (possible after [Simulation.SwitchProcess]) a [*BoundsError] is returned
// and the simulation is left unchanged.
func (s *Simulation) Next() (Step, error) {
	if s.Done() {
		return Step{}, ErrTraceExhausted
	}
	step, err := s.state.access(s.trace[s.state.position])
	if err != nil {
		return Step{}, err
	}
	s.timeline = append(s.timeline, step)
	return step, nil
}

// Done reports whether every reference has been processed.
func (s *Simulation) Done() bool {
	return s.state.position == len(s.trace)
}

// Timeline returns the steps processed so far.
func (s *Simulation) Timeline() Timeline { return slices.Clone(s.timeline) }

// Stats returns the cumulative counters.
func (s *Simulation) Stats() Stats { return s.state.stats }

// State returns a copy of the current state.
func (s *Simulation) State() *State { return s.state.Clone() }

// SwitchProcess makes process id the active process, flushing the TLB.
// Subsequent references are attributed to (and bounded by) that process.
func (s *Simulation) SwitchProcess(id int) error {
	return s.state.SwitchProcess(id)
}

// ReleaseProcess frees the frames of process id.
// See [State.ReleaseProcess].
func (s *Simulation) ReleaseProcess(id int) (int, error) {
	return s.state.ReleaseProcess(id)
}
