// Package validate turns raw form input into a typed calculator input, or a
// complete list of per-field errors. Every field rule runs regardless of
// earlier failures so the caller can highlight all invalid fields in one pass.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

// Tax rates are quoted per $1000 of price per year on a fixed half-point grid.
const (
	taxGridMin  = 5.0
	taxGridMax  = 30.5
	taxGridStep = 0.5
)

const (
	msgRequired      = "Required"
	msgNotANumber    = "Must be a number"
	msgNotPositive   = "Must be positive"
	msgNegative      = "Must be zero or greater"
	msgRateNotListed = "Not an offered rate for the selected term"
)

// RawInput carries the untrimmed string form fields as submitted. Price holds
// the desired monthly payment or the desired purchase price depending on the
// calculation direction; the validator treats both the same way.
type RawInput struct {
	Price            string
	Term             string
	Rate             string
	Tax              string
	Insurance        string
	HOAFee           string
	PrincipalBuydown string
}

// Result is the outcome of whole-object validation. OK is true only when every
// field passed, in which case Input is fully populated. Errors lists one entry
// per failed rule across all fields.
type Result struct {
	OK     bool
	Input  domain.CalculatorInput
	Errors []domain.FieldError
}

// ValidateInput checks every field independently and aggregates all failures.
// The rate rule is the simple variant: any positive number passes.
func ValidateInput(raw RawInput) Result {
	return validate(raw, nil)
}

// ValidateInputWithRates is the strict variant used when the caller holds an
// authoritative rate table: the rate must additionally be one of the rates
// quoted for the chosen term. When the term itself is invalid the membership
// check is skipped, since there is no rate list to check against.
func ValidateInputWithRates(raw RawInput, table domain.RateTable) Result {
	return validate(raw, table)
}

func validate(raw RawInput, table domain.RateTable) Result {
	var errs []domain.FieldError
	var input domain.CalculatorInput

	input.Amount = checkNonNegative("price", raw.Price, msgNotPositive, &errs)

	term, termOK := checkTerm(raw.Term, &errs)
	input.TermYears = term

	input.Rate = checkRate(raw.Rate, table, term, termOK, &errs)
	input.TaxRate = checkTaxGrid(raw.Tax, &errs)
	input.Insurance = checkNonNegative("insurance", raw.Insurance, msgNegative, &errs)
	input.HOAFee = checkNonNegative("hoaFee", raw.HOAFee, msgNegative, &errs)
	input.PrincipalBuydown = checkNonNegative("principalBuydown", raw.PrincipalBuydown, msgNegative, &errs)

	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}
	return Result{OK: true, Input: input}
}

func parseNumber(raw string) (float64, bool, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, false
	}
	return v, true, true
}

func checkNonNegative(field, raw, negativeMsg string, errs *[]domain.FieldError) float64 {
	v, present, numeric := parseNumber(raw)
	switch {
	case !present:
		*errs = append(*errs, domain.FieldError{Field: field, Message: msgRequired})
	case !numeric:
		*errs = append(*errs, domain.FieldError{Field: field, Message: msgNotANumber})
	case v < 0:
		*errs = append(*errs, domain.FieldError{Field: field, Message: negativeMsg})
	default:
		return v
	}
	return 0
}

func checkTerm(raw string, errs *[]domain.FieldError) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		*errs = append(*errs, domain.FieldError{Field: "term", Message: msgRequired})
		return 0, false
	}
	term, err := strconv.Atoi(trimmed)
	if err != nil || !domain.TermAllowed(term) {
		*errs = append(*errs, domain.FieldError{Field: "term", Message: termOptionsMessage()})
		return 0, false
	}
	return term, true
}

func termOptionsMessage() string {
	parts := make([]string, 0, len(domain.AllowedTerms))
	for _, t := range domain.AllowedTerms {
		parts = append(parts, strconv.Itoa(t))
	}
	return "Must be one of " + strings.Join(parts, ", ")
}

func checkRate(raw string, table domain.RateTable, term int, termOK bool, errs *[]domain.FieldError) float64 {
	v, present, numeric := parseNumber(raw)
	switch {
	case !present:
		*errs = append(*errs, domain.FieldError{Field: "rate", Message: msgRequired})
	case !numeric:
		*errs = append(*errs, domain.FieldError{Field: "rate", Message: msgNotANumber})
	case v <= 0:
		*errs = append(*errs, domain.FieldError{Field: "rate", Message: msgNotPositive})
	case table != nil && termOK && !table.Contains(term, v):
		*errs = append(*errs, domain.FieldError{Field: "rate", Message: msgRateNotListed})
	default:
		return v
	}
	return 0
}

// checkTaxGrid compares against the grid in integer tenths so values like
// 10.499999 arriving from float form widgets still land on a step.
func checkTaxGrid(raw string, errs *[]domain.FieldError) float64 {
	v, present, numeric := parseNumber(raw)
	switch {
	case !present:
		*errs = append(*errs, domain.FieldError{Field: "tax", Message: msgRequired})
		return 0
	case !numeric:
		*errs = append(*errs, domain.FieldError{Field: "tax", Message: msgNotANumber})
		return 0
	}

	tenths := int(math.Round(v * 10))
	minTenths := int(math.Round(taxGridMin * 10))
	maxTenths := int(math.Round(taxGridMax * 10))
	stepTenths := int(math.Round(taxGridStep * 10))
	if tenths < minTenths || tenths > maxTenths || (tenths-minTenths)%stepTenths != 0 {
		*errs = append(*errs, domain.FieldError{
			Field:   "tax",
			Message: fmt.Sprintf("Must be between %.1f and %.1f in steps of %.1f", taxGridMin, taxGridMax, taxGridStep),
		})
		return 0
	}
	return float64(tenths) / 10
}
