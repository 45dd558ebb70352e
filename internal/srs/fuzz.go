package srs

import (
	"math"
	"math/rand"
	"time"
)

// Interval fuzzing spreads review-day intervals slightly so cards created
// together do not stay clustered forever. Off unless a seed is configured.

type fuzzRange struct {
	start, end float64
	factor     float64
}

var fuzzRanges = []fuzzRange{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

func fuzzDelta(days float64) float64 {
	delta := 1.0
	for _, r := range fuzzRanges {
		delta += r.factor * math.Max(math.Min(days, r.end)-r.start, 0)
	}
	return delta
}

// fuzzInterval randomizes a review interval within its fuzz range.
// Intervals under 2.5 days are left alone.
func fuzzInterval(days, maxInterval int, rng *rand.Rand) int {
	if float64(days) < 2.5 {
		return days
	}
	d := float64(days)
	delta := fuzzDelta(d)

	lo := max(2, int(math.Round(d-delta)))
	hi := min(int(math.Round(d+delta)), maxInterval)
	lo = min(lo, hi)

	fuzzed := lo + int(math.Round(rng.Float64()*float64(hi-lo+1)))
	return min(fuzzed, maxInterval)
}

// fuzzRNG derives a per-review random source from the configured seed, the
// card identity and the review time, so repeated previews of the same
// (card, now) pair stay identical even with fuzzing enabled.
func fuzzRNG(seed, cardID int64, now time.Time) *rand.Rand {
	return rand.New(rand.NewSource(seed ^ cardID ^ now.UnixNano()))
}
