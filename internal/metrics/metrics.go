// Package metrics derives display percentages from raw trade prices.
// All functions are pure and called per render, never per event.
package metrics

// ChangePct is the percent move of the last traded price from the
// reference close. Returns 0 when close is 0.
func ChangePct(ltp, close float64) float64 {
	if close == 0 {
		return 0
	}
	return (ltp - close) / close * 100
}

// TargetDist is the percent distance from the last traded price to the
// target. Returns 0 when ltp is 0.
func TargetDist(target, ltp float64) float64 {
	if ltp == 0 {
		return 0
	}
	return (target - ltp) / ltp * 100
}

// StopDist is the percent distance from the last traded price to the
// stop loss. Returns 0 when ltp is 0.
func StopDist(stopLoss, ltp float64) float64 {
	if ltp == 0 {
		return 0
	}
	return (stopLoss - ltp) / ltp * 100
}

// TargetHit reports whether a target distance means the target has been
// reached: price at or past the target.
func TargetHit(targetDist float64) bool {
	return targetDist <= 0
}
