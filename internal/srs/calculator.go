package srs

import (
	"math"

	"github.com/recallcode/recallcode/internal/models"
)

// Params holds the tunable constants of the scheduling algorithm. They are
// passed in explicitly so Compute stays free of ambient state.
type Params struct {
	InitialEase float64
	MinEase     float64
	MaxEase     float64

	// Performance penalties shorten the interval when the latest attempt
	// ran slower or heavier than the previous one.
	RuntimePenaltyThreshold float64
	MemoryPenaltyThreshold  float64
	RuntimePenaltyWeight    float64
	MemoryPenaltyWeight     float64
}

// DefaultParams returns the standard algorithm constants.
func DefaultParams() Params {
	return Params{
		InitialEase:             2.5,
		MinEase:                 1.3,
		MaxEase:                 2.5,
		RuntimePenaltyThreshold: 0.8,
		MemoryPenaltyThreshold:  0.8,
		RuntimePenaltyWeight:    0.5,
		MemoryPenaltyWeight:     0.3,
	}
}

// Result is the scheduling state produced by Compute.
type Result struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
}

// Compute applies one rating to a record's scheduling state and returns the
// new interval, ease factor and repetition count. Pure: no clock, no I/O.
//
// Ratings: 1=Again, 2=Hard, 3=Good, 4=Easy, 5=Perfect. Ratings <= 2 reset
// the repetition streak. The repetition branch below uses the pre-increment
// count; the increment for successful ratings happens last.
func Compute(p Params, rec models.ReviewRecord, rating int, runtimeRatio, memoryRatio float64) Result {
	interval := rec.IntervalDays
	ease := rec.EaseFactor
	reps := rec.Repetitions

	switch {
	case rating <= 2:
		reps = 0
		interval = 1
		ease = max(ease-0.2, p.MinEase)
	case rating == 3:
		switch reps {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = floorDays(float64(interval) * ease)
		}
		ease = max(ease-0.15, p.MinEase)
	default: // 4 or 5
		switch reps {
		case 0:
			interval = 4
		case 1:
			interval = 10
		default:
			interval = floorDays(float64(interval) * ease)
		}
		if rating == 5 {
			ease = min(ease+0.15, p.MaxEase)
		} else {
			ease = min(ease+0.1, p.MaxEase)
		}
	}

	// A ratio of exactly 1.0 is the "no comparable measurement" sentinel
	// and never penalizes.
	if runtimeRatio != 1 && runtimeRatio > p.RuntimePenaltyThreshold {
		penalty := 1 - (runtimeRatio-p.RuntimePenaltyThreshold)*p.RuntimePenaltyWeight
		interval = max(floorDays(float64(interval)*penalty), 1)
	}
	if memoryRatio != 1 && memoryRatio > p.MemoryPenaltyThreshold {
		penalty := 1 - (memoryRatio-p.MemoryPenaltyThreshold)*p.MemoryPenaltyWeight
		interval = max(floorDays(float64(interval)*penalty), 1)
	}

	if rating >= 3 {
		reps++
	}

	return Result{IntervalDays: interval, EaseFactor: ease, Repetitions: reps}
}

// floorDays floors a day product with a fuzz guard: 10*2.3 is
// 22.999999999999996 in IEEE 754 and must still floor to 23.
func floorDays(f float64) int {
	return int(math.Floor(f + 1e-9))
}
