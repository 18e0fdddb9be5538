package vmsim_test

import (
	"math/rand"
	"testing"

	"github.com/djdv/go-vmsim"
)

// Fixed RNG seed for reproducibility.
// Change to test variance between runs.
const rngSeed = 1

var (
	// beladyTrace exhibits Belady's anomaly under FIFO.
	beladyTrace = vmsim.Reads(1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5)
	// textbookTrace is beladyTrace shifted down by one page.
	textbookTrace = vmsim.Reads(0, 1, 2, 3, 0, 1, 4, 0, 1, 2, 3, 4)
)

func newReproducibleRNG() *rand.Rand {
	return rand.New(rand.NewSource(rngSeed))
}

func singleProcess(pageCount int) []vmsim.Process {
	return []vmsim.Process{{ID: 1, Name: "P1", PageCount: pageCount}}
}

func newConfig(frames int, policy vmsim.Policy) vmsim.Config {
	config := vmsim.DefaultConfig()
	config.NumFrames = frames
	config.Policy = policy
	return config
}

func mustRun(
	tb testing.TB, config vmsim.Config,
	processes []vmsim.Process, trace []vmsim.Reference,
) vmsim.Timeline {
	tb.Helper()
	timeline, err := vmsim.Run(config, processes, trace)
	if err != nil {
		tb.Fatal(err)
	}
	if got, want := len(timeline), len(trace); got != want {
		tb.Fatalf(
			"expected one step per reference"+
				"\n\tgot: %d"+
				"\n\twant: %d",
			got, want)
	}
	return timeline
}

func faultCount(
	tb testing.TB, frames int, policy vmsim.Policy,
	trace []vmsim.Reference,
) int {
	tb.Helper()
	const pageCount = vmsim.MaxPageCount
	timeline := mustRun(tb,
		newConfig(frames, policy),
		singleProcess(pageCount), trace,
	)
	return timeline.Stats().PageFaults
}

func mustNew(
	tb testing.TB, config vmsim.Config,
	processes []vmsim.Process, trace []vmsim.Reference,
) *vmsim.Simulation {
	tb.Helper()
	simulation, err := vmsim.New(config, processes, trace)
	if err != nil {
		tb.Fatal(err)
	}
	return simulation
}

func mustNext(tb testing.TB, simulation *vmsim.Simulation) vmsim.Step {
	tb.Helper()
	step, err := simulation.Next()
	if err != nil {
		tb.Fatal(err)
	}
	return step
}

func checkEqual[Value comparable](tb testing.TB, got, want Value, msg string) {
	tb.Helper()
	if got == want {
		return
	}
	tb.Fatalf(
		"%s"+
			"\n\tgot: %v"+
			"\n\twant: %v",
		msg, got, want)
}

func makeRandomTrace(rng *rand.Rand, pageCount, length int) []vmsim.Reference {
	trace := make([]vmsim.Reference, length)
	for i := range trace {
		trace[i] = vmsim.Reference{
			Page:  rng.Intn(pageCount),
			Write: rng.Intn(4) == 0,
		}
	}
	return trace
}
