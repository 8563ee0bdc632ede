// Package motion generates the evasive target movement: an endless series of
// randomized point-to-point hops inside the arena.
package motion

import (
	"iter"
	"math/rand/v2"
	"time"
)

// Offset is a displacement from the arena center, in arena units.
type Offset struct {
	X, Y float64
}

// Segment is one hop: travel to To over Duration, then hold for Pause.
type Segment struct {
	To       Offset
	Duration time.Duration
	Pause    time.Duration
}

// Config bounds the random draws.
type Config struct {
	Margin      float64
	MinDuration time.Duration
	MaxDuration time.Duration
	MinPause    time.Duration
	MaxPause    time.Duration
}

// DefaultConfig matches the tuning players are used to.
func DefaultConfig() Config {
	return Config{
		Margin:      10,
		MinDuration: 480 * time.Millisecond,
		MaxDuration: 820 * time.Millisecond,
		MinPause:    60 * time.Millisecond,
		MaxPause:    200 * time.Millisecond,
	}
}

// HalfTravel is how far the target center may move from the arena center on
// each axis. It is never negative.
func HalfTravel(arenaSize, targetSize, margin float64) float64 {
	half := (arenaSize - targetSize - 2*margin) / 2
	if half < 0 {
		return 0
	}
	return half
}

// Segments returns an endless lazy sequence of hops drawn from rng. It never
// ends on its own; the consumer stops pulling.
func Segments(rng *rand.Rand, half float64, cfg Config) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for {
			seg := Segment{
				To: Offset{
					X: uniform(rng, -half, half),
					Y: uniform(rng, -half, half),
				},
				Duration: uniformDuration(rng, cfg.MinDuration, cfg.MaxDuration),
				Pause:    uniformDuration(rng, cfg.MinPause, cfg.MaxPause),
			}
			if !yield(seg) {
				return
			}
		}
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func uniformDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int64N(int64(hi-lo)))
}

// easeInOutQuad maps linear progress p in [0,1] onto the tween curve.
func easeInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 2
	return 1 - q*q/2
}
