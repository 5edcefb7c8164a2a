package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDirection = errors.New("invalid calculation direction")
)

// Direction selects which side of the price/payment relation is known.
type Direction string

const (
	// PriceToPayment: purchase price is known, solve for the monthly payment.
	PriceToPayment Direction = "price_to_payment"
	// PaymentToPrice: desired monthly payment is known, solve for the price.
	PaymentToPrice Direction = "payment_to_price"
)

func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case PriceToPayment, PaymentToPrice:
		return Direction(raw), nil
	}
	return "", ErrInvalidDirection
}

// CalculatorInput is a fully validated calculation request. Amount carries the
// desired monthly payment or the desired purchase price depending on the
// direction the caller chose.
type CalculatorInput struct {
	Amount           float64
	TermYears        int
	Rate             float64
	TaxRate          float64
	Insurance        float64
	HOAFee           float64
	PrincipalBuydown float64
}

// CalculationResult is the PITI breakdown for one request. All figures are raw
// numbers; formatting is a caller concern. MonthlyPayment always equals
// PrincipalInterest + Taxes + Insurance + HOAFee within floating-point
// tolerance.
type CalculationResult struct {
	MonthlyPayment    float64
	PurchasePrice     float64
	PrincipalInterest float64
	Taxes             float64
	Insurance         float64
	HOAFee            float64
}

// FieldError is a single validation failure tied to one form field. Validation
// reports every failing field in one batch, never just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}
