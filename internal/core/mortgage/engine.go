// Package mortgage computes affordability figures for the no-down-payment loan
// program: a full PITI breakdown in either direction (price to payment, or
// payment to price) plus buydown pricing. All functions are pure and total
// over validated input; degenerate numeric edge cases are clamped, never
// raised as errors.
package mortgage

import (
	"math"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

const (
	// solveEpsilon is the dollar tolerance at which the payment-to-price
	// search stops early.
	solveEpsilon = 0.01
	// solveMaxIterations bounds the search so a single call never loops
	// unbounded, even when whole-dollar tax rounding makes the target
	// payment unreachable within epsilon.
	solveMaxIterations = 1000
)

// MonthlyPI returns the level monthly principal-and-interest payment for a
// fixed-rate loan. A zero rate degenerates to linear amortization
// (principal/n), the limit of the standard formula as the rate approaches
// zero.
func MonthlyPI(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0
	}
	n := float64(termYears * 12)
	m := annualRate / 100 / 12
	if m == 0 {
		return principal / n
	}
	pow := math.Pow(1+m, n)
	return principal * m * pow / (pow - 1)
}

// MonthlyTax converts a per-$1000-per-year tax rate into a monthly dollar
// figure on the purchase price, rounded to the nearest whole dollar.
func MonthlyTax(purchasePrice, taxRate float64) float64 {
	if purchasePrice <= 0 || math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) {
		return 0
	}
	return math.Round(purchasePrice * taxRate / 1000 / 12)
}

// Calculate derives the unknown side of the price/payment relation.
// Input.Amount is read as the purchase price or the desired monthly payment
// according to direction.
func Calculate(input domain.CalculatorInput, direction domain.Direction) (domain.CalculationResult, error) {
	switch direction {
	case domain.PriceToPayment:
		return priceToPayment(input), nil
	case domain.PaymentToPrice:
		return paymentToPrice(input), nil
	}
	return domain.CalculationResult{}, domain.ErrInvalidDirection
}

func priceToPayment(input domain.CalculatorInput) domain.CalculationResult {
	principal := input.Amount - input.PrincipalBuydown
	if principal < 0 {
		principal = 0
	}

	pi := MonthlyPI(principal, input.Rate, input.TermYears)
	// Tax is assessed on the full purchase price, not the bought-down principal.
	tax := MonthlyTax(input.Amount, input.TaxRate)

	return domain.CalculationResult{
		MonthlyPayment:    pi + tax + input.Insurance + input.HOAFee,
		PurchasePrice:     input.Amount,
		PrincipalInterest: pi,
		Taxes:             tax,
		Insurance:         input.Insurance,
		HOAFee:            input.HOAFee,
	}
}

// paymentToPrice solves for the price that yields the desired monthly payment.
// Tax depends on the price being solved for, so there is no closed form; the
// relation is monotonic and the search bisects over candidate post-buydown
// principal. Bisection rather than a derivative method: the cost function
// steps at whole-dollar tax boundaries.
func paymentToPrice(input domain.CalculatorInput) domain.CalculationResult {
	desired := input.Amount

	cost := func(principal float64) float64 {
		return MonthlyPI(principal, input.Rate, input.TermYears) +
			MonthlyTax(principal, input.TaxRate) +
			input.Insurance + input.HOAFee
	}

	// Generous upper bound: paying the desired amount with no interest or
	// tax for the whole term buys half this much.
	high := 2 * desired * float64(input.TermYears*12)
	guess := bisect(0, high, desired, solveEpsilon, solveMaxIterations, cost)

	pi := MonthlyPI(guess, input.Rate, input.TermYears)
	tax := MonthlyTax(guess, input.TaxRate)

	return domain.CalculationResult{
		// Reported as the caller's target by contract, so a UI round-trip
		// shows the number the user typed.
		MonthlyPayment:    desired,
		PurchasePrice:     guess + input.PrincipalBuydown,
		PrincipalInterest: pi,
		Taxes:             tax,
		Insurance:         input.Insurance,
		HOAFee:            input.HOAFee,
	}
}

// bisect runs a closed-interval binary search for the value whose cost is
// closest to target. cost must be non-decreasing over [low, high]. It stops
// once cost is within eps of target or after maxIter halvings, whichever
// comes first.
func bisect(low, high, target, eps float64, maxIter int, cost func(float64) float64) float64 {
	guess := (low + high) / 2
	for i := 0; i < maxIter; i++ {
		guess = (low + high) / 2
		total := cost(guess)
		if math.Abs(total-target) <= eps {
			return guess
		}
		if total > target {
			high = guess
		} else {
			low = guess
		}
	}
	return guess
}
