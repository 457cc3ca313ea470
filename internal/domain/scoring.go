package domain

import "math"

const (
	// DecayGraceSeconds is how long a hole can take before its score decays.
	DecayGraceSeconds = 10
	// DefaultBaseScore applies to hole numbers outside the course table.
	DefaultBaseScore = 100
)

// HoleScore is the scored outcome of a completed hole.
type HoleScore struct {
	Base  int
	Decay int
	Final int
}

// BaseScore returns the points available on a hole before decay:
// hole 1 is worth 100, hole 10 is worth 1000.
func BaseScore(holeNumber int) int {
	if holeNumber < FirstHole || holeNumber > LastHole {
		return DefaultBaseScore
	}
	return holeNumber * 100
}

// ScoreHole scores a hole finished in completionSeconds. One point is lost
// per whole second past the grace period and the final score never drops
// below zero.
func ScoreHole(holeNumber int, completionSeconds float64) HoleScore {
	base := BaseScore(holeNumber)
	decay := int(math.Floor(math.Max(0, completionSeconds-DecayGraceSeconds)))
	return HoleScore{
		Base:  base,
		Decay: decay,
		Final: max(0, base-decay),
	}
}
