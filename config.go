package vmsim

import "fmt"

type (
	// Config parameterizes a simulation run.
	// Out of range values are rejected by [Config.Validate], never clamped.
	Config struct {
		NumFrames        int    `json:"numFrames"`
		TLBSize          int    `json:"tlbSize"`
		Policy           Policy `json:"policy"`
		WorkingSetWindow int    `json:"workingSetWindow"`
		ActiveProcess    int    `json:"activeProcessId"`
	}
	// Process describes a virtual address space.
	// Valid page numbers are [0, PageCount).
	Process struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		PageCount int    `json:"pageCount"`
	}
)

// Configuration bounds.
const (
	MinFrames, MaxFrames                     = 2, 16
	MinTLBSize, MaxTLBSize                   = 1, 8
	MinWorkingSetWindow, MaxWorkingSetWindow = 2, 10
	MinPageCount, MaxPageCount               = 1, 20
	MaxTraceLength                           = 1000
)

// DefaultConfig returns a configuration within bounds
// for process 1 using [FIFO].
func DefaultConfig() Config {
	return Config{
		NumFrames:        3,
		TLBSize:          4,
		Policy:           FIFO,
		WorkingSetWindow: 4,
		ActiveProcess:    1,
	}
}

// Validate checks every field against its bounds and that the
// active process is present in processes.
func (c Config) Validate(processes []Process) error {
	for _, bound := range []struct {
		field           string
		got, low, limit int
	}{
		{"numFrames", c.NumFrames, MinFrames, MaxFrames},
		{"tlbSize", c.TLBSize, MinTLBSize, MaxTLBSize},
		{"workingSetWindow", c.WorkingSetWindow, MinWorkingSetWindow, MaxWorkingSetWindow},
	} {
		if bound.got < bound.low || bound.got > bound.limit {
			return rangeError(ErrInvalidConfig,
				bound.field, bound.got, bound.low, bound.limit)
		}
	}
	if !c.Policy.Valid() {
		return fmt.Errorf("%w: %w: %d",
			ErrInvalidConfig, ErrUnknownPolicy, c.Policy)
	}
	if err := validateProcesses(processes); err != nil {
		return err
	}
	if _, err := lookupProcess(processes, c.ActiveProcess); err != nil {
		return fmt.Errorf("%w: active process: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validateProcesses(processes []Process) error {
	if len(processes) == 0 {
		return fmt.Errorf("%w: no processes", ErrInvalidConfig)
	}
	seen := make(map[int]struct{}, len(processes))
	for _, process := range processes {
		if _, dup := seen[process.ID]; dup {
			return fmt.Errorf("%w: duplicate process id %d",
				ErrInvalidConfig, process.ID)
		}
		seen[process.ID] = struct{}{}
		if process.PageCount < MinPageCount || process.PageCount > MaxPageCount {
			return rangeError(ErrInvalidConfig,
				fmt.Sprintf("process %d pageCount", process.ID),
				process.PageCount, MinPageCount, MaxPageCount)
		}
	}
	return nil
}

func lookupProcess(processes []Process, id int) (Process, error) {
	for _, process := range processes {
		if process.ID == id {
			return process, nil
		}
	}
	return Process{}, fmt.Errorf("%w: %d", ErrUnknownProcess, id)
}
