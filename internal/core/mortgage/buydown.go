package mortgage

import "math"

// maxRateReduction is a program rule: no buydown may lower the rate by more
// than 1.5 percentage points, no matter what the borrower asks for.
const maxRateReduction = 1.5

// RateBuydownCost prices an interest-rate buydown from originalRate down to
// desiredRate. The returned reduction is the achieved one, which callers
// display when the request was capped. Cost is zero when no reduction is
// requested or the principal is degenerate.
//
// The 15-year term prices steeper per point than 20- and 30-year terms.
func RateBuydownCost(principal, originalRate, desiredRate float64, termYears int) (cost, reduction float64) {
	if principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, 0
	}
	if desiredRate >= originalRate {
		return 0, 0
	}

	reduction = originalRate - desiredRate
	if reduction > maxRateReduction {
		reduction = maxRateReduction
	}

	multiplier := 0.04
	if termYears == 20 || termYears == 30 {
		multiplier = 0.06
	}

	return principal * reduction * multiplier, reduction
}
