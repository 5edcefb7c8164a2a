package usecase

import (
	"context"
	"errors"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/mortgage"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/validate"
)

// CalculatorService runs validation and the mortgage engine for one request.
// When a current rate sheet is on file the strict rate rule applies (the rate
// must be one actually quoted for the term); with no sheet stored yet any
// positive rate is accepted.
type CalculatorService struct {
	rates *RateService
}

func NewCalculatorService(rates *RateService) *CalculatorService {
	return &CalculatorService{rates: rates}
}

// Calculate validates raw form input and computes the result. Validation
// failures come back as the FieldError slice, not as an error: they are data
// for the caller to render. The error return is reserved for infrastructure
// failures loading the rate table.
func (s *CalculatorService) Calculate(ctx context.Context, raw validate.RawInput, direction domain.Direction) (domain.CalculationResult, []domain.FieldError, error) {
	var res validate.Result

	sheet, err := s.rates.Current(ctx)
	switch {
	case err == nil:
		res = validate.ValidateInputWithRates(raw, sheet.Table)
	case errors.Is(err, domain.ErrNotFound):
		res = validate.ValidateInput(raw)
	default:
		return domain.CalculationResult{}, nil, err
	}

	if !res.OK {
		return domain.CalculationResult{}, res.Errors, nil
	}

	result, err := mortgage.Calculate(res.Input, direction)
	if err != nil {
		return domain.CalculationResult{}, nil, err
	}
	return result, nil, nil
}

// RateBuydown prices an interest-rate buydown. Pure passthrough to the
// engine; exposed on the service so handlers depend on one surface.
func (s *CalculatorService) RateBuydown(principal, originalRate, desiredRate float64, termYears int) (cost, reduction float64) {
	return mortgage.RateBuydownCost(principal, originalRate, desiredRate, termYears)
}
