package vmsim

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
)

type (
	// ComparisonResult holds the final counters of one policy's run.
	ComparisonResult struct {
		Policy       Policy  `json:"policy"`
		PageFaults   int     `json:"pageFaults"`
		PageHits     int     `json:"pageHits"`
		HitRatio     float64 `json:"hitRatio"`
		Replacements int     `json:"replacements"`
		DiskWrites   int     `json:"diskWrites"`
	}
	// Comparison ranks every policy over the same trace.
	// Constructed by [Compare].
	Comparison struct {
		// Results are ordered by ascending page faults;
		// ties keep the canonical order of [Policies].
		Results []ComparisonResult `json:"results"`
		// Current is the policy of the configuration compared.
		Current Policy `json:"currentPolicy"`
	}
)

// Compare runs the trace once per policy, each run starting from empty
// frames, and ranks the results. Runs execute concurrently and share
// no mutable state. If ctx is canceled before every run completes,
// no results are returned.
func Compare(ctx context.Context, config Config, processes []Process, trace []Reference, options ...Option) (*Comparison, error) {
	if err := config.Validate(processes); err != nil {
		return nil, err
	}
	active, _ := lookupProcess(processes, config.ActiveProcess)
	if err := validateTrace(trace, active); err != nil {
		return nil, err
	}
	var (
		policies = Policies()
		results  = make([]ComparisonResult, len(policies))
		errs     = make([]error, len(policies))
		wg       sync.WaitGroup
	)
	for i, policy := range policies {
		wg.Go(func() {
			config := config
			config.Policy = policy
			results[i], errs[i] = comparePolicy(ctx, config, processes, trace, options)
		})
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	slices.SortStableFunc(results, func(a, b ComparisonResult) int {
		return cmp.Compare(a.PageFaults, b.PageFaults)
	})
	return &Comparison{
		Results: results,
		Current: config.Policy,
	}, nil
}

func comparePolicy(
	ctx context.Context, config Config,
	processes []Process, trace []Reference, options []Option,
) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}
	simulation, err := New(config, processes, trace, options...)
	if err != nil {
		return ComparisonResult{}, err
	}
	for !simulation.Done() {
		if err := ctx.Err(); err != nil {
			return ComparisonResult{}, err
		}
		if _, err := simulation.Next(); err != nil {
			return ComparisonResult{}, err
		}
	}
	stats := simulation.Stats()
	return ComparisonResult{
		Policy:       config.Policy,
		PageFaults:   stats.PageFaults,
		PageHits:     stats.PageHits,
		HitRatio:     stats.HitRatio(),
		Replacements: stats.Replacements,
		DiskWrites:   stats.DiskWrites,
	}, nil
}

// Best returns the result with the fewest faults.
func (c *Comparison) Best() ComparisonResult { return c.Results[0] }

// Worst returns the result with the most faults.
func (c *Comparison) Worst() ComparisonResult { return c.Results[len(c.Results)-1] }

// Rank returns the 1-based position of policy in the results,
// or [None] if it was not compared.
func (c *Comparison) Rank(policy Policy) int {
	for i, result := range c.Results {
		if result.Policy == policy {
			return i + 1
		}
	}
	return None
}

// CurrentRank returns the rank of the compared configuration's policy.
func (c *Comparison) CurrentRank() int { return c.Rank(c.Current) }
