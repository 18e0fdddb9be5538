package vmsim_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/djdv/go-vmsim"
	"github.com/hashicorp/golang-lru/arc/v2"
)

type (
	patternGen    = func(capacity int) []int
	accessPattern struct {
		name string
		gen  patternGen
	}
	hitCounter = func(capacity int, sequence []int, b *testing.B) (hits, misses int)
)

// BenchmarkPolicies measures each replacement policy over synthetic
// traces, reporting hit rates next to an ARC cache of the same capacity.
func BenchmarkPolicies(b *testing.B) {
	var (
		capacities = []int{4, 8, vmsim.MaxFrames}
		patterns   = accessPatterns()
	)
	for _, pattern := range patterns {
		b.Run(pattern.name, newBenchPattern(pattern.gen, capacities))
	}
}

func accessPatterns() []accessPattern {
	const (
		universe = vmsim.MaxPageCount
		seqLen   = vmsim.MaxTraceLength
	)
	return []accessPattern{
		{
			"Sequential scan",
			func(int) []int {
				return makeSequential(universe, seqLen)
			},
		},
		{
			"Loop working set",
			func(capacity int) []int {
				const hotRatio = 0.9 // 90% of accesses hit hot set.
				return makeLooping(capacity, universe, seqLen, hotRatio)
			},
		},
		{
			"Zipf",
			func(int) []int {
				const (
					skew = 1.2
					bias = 1.0
				)
				return makeZipf(universe, seqLen, skew, bias)
			},
		},
		{
			"Uniform random",
			func(int) []int {
				rng := newReproducibleRNG()
				return makeRandomSequence(rng, universe, seqLen)
			},
		},
	}
}

func newBenchPattern(genPattern patternGen, capacities []int) func(b *testing.B) {
	return func(b *testing.B) {
		for _, capacity := range capacities {
			var (
				name     = fmt.Sprintf("Frames%d", capacity)
				sequence = genPattern(capacity)
			)
			b.Run(name, newBenchCapacity(capacity, sequence))
		}
	}
}

func newBenchCapacity(capacity int, sequence []int) func(b *testing.B) {
	return func(b *testing.B) {
		for _, policy := range vmsim.Policies() {
			b.Run(policy.String(),
				newBenchCounter(policyCounter(policy), capacity, sequence))
		}
		b.Run("ARC", newBenchCounter(arcCounter, capacity, sequence))
	}
}

func newBenchCounter(count hitCounter, capacity int, sequence []int) func(b *testing.B) {
	return func(b *testing.B) {
		b.ReportAllocs()
		var hits, misses int
		for b.Loop() {
			hits, misses = count(capacity, sequence, b)
		}
		var (
			total    = float64(hits + misses)
			hitRate  = float64(hits) / total * 100.0
			missRate = float64(misses) / total * 100.0
		)
		b.ReportMetric(hitRate, "hit_rate_pct")
		b.ReportMetric(missRate, "miss_rate_pct")
	}
}

func policyCounter(policy vmsim.Policy) hitCounter {
	return func(capacity int, sequence []int, b *testing.B) (int, int) {
		var (
			config    = newConfig(capacity, policy)
			processes = singleProcess(vmsim.MaxPageCount)
			trace     = vmsim.Reads(sequence...)
		)
		timeline, err := vmsim.Run(config, processes, trace)
		if err != nil {
			b.Fatal(err)
		}
		stats := timeline.Stats()
		return stats.PageHits, stats.PageFaults
	}
}

func arcCounter(capacity int, sequence []int, b *testing.B) (hits, misses int) {
	cache, err := arc.NewARC[int, int](capacity)
	if err != nil {
		b.Fatal(err)
	}
	for _, key := range sequence {
		if _, ok := cache.Get(key); ok {
			hits++
		} else {
			misses++
			cache.Add(key, key)
		}
	}
	return hits, misses
}

func makeSequential(universe, seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = i % universe
	}
	return seq
}

func makeLooping(capacity, universe, seqLen int, hotRatio float64) []int {
	var (
		seq      = make([]int, seqLen)
		rng      = newReproducibleRNG()
		hotSize  = max(1, min(capacity, universe-1))
		coldSize = max(1, universe-hotSize)
	)
	for i := range seq {
		if rng.Float64() < hotRatio {
			seq[i] = rng.Intn(hotSize)
		} else {
			seq[i] = hotSize + rng.Intn(coldSize)
		}
	}
	return seq
}

func makeZipf(universe, seqLen int, skew, bias float64) []int {
	var (
		seq  = make([]int, seqLen)
		rng  = newReproducibleRNG()
		imax = uint64(max(universe, 2) - 1)
		zipf = rand.NewZipf(rng, skew, bias, imax)
	)
	for i := range seq {
		seq[i] = int(zipf.Uint64())
	}
	return seq
}

func makeRandomSequence(rng *rand.Rand, upperBound, length int) []int {
	keys := make([]int, length)
	for i := range keys {
		keys[i] = rng.Intn(upperBound)
	}
	return keys
}
