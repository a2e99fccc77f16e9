package engine

import "math"

// Scoring mirrors what the coordinator currently trusts from clients: a
// flat base for a correct answer plus a time bonus of up to ~100 points for
// the fastest response. Wrong answers score nothing. A hardened coordinator
// should recompute this server-side and treat the client value as a hint;
// see DESIGN.md.
const (
	basePoints    = 100
	timeBonusRate = 3.33
)

// ComputePoints returns the points to report for an answer submitted with
// timeLeft seconds remaining on the question countdown
func ComputePoints(correct bool, timeLeft int) int {
	if !correct {
		return 0
	}
	if timeLeft < 0 {
		timeLeft = 0
	}
	return basePoints + int(math.Floor(float64(timeLeft)*timeBonusRate))
}
