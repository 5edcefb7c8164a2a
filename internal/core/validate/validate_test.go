package validate

import (
	"testing"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

func validRaw() RawInput {
	return RawInput{
		Price:            "250000",
		Term:             "30",
		Rate:             "6.5",
		Tax:              "15",
		Insurance:        "80",
		HOAFee:           "0",
		PrincipalBuydown: "0",
	}
}

func errorFor(res Result, field string) (string, bool) {
	for _, e := range res.Errors {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

func TestValidateInputAccepted(t *testing.T) {
	res := ValidateInput(validRaw())
	if !res.OK {
		t.Fatalf("expected ok, got errors %v", res.Errors)
	}
	if res.Input.Amount != 250000 || res.Input.TermYears != 30 || res.Input.Rate != 6.5 {
		t.Fatalf("unexpected input %+v", res.Input)
	}
	if res.Input.TaxRate != 15 {
		t.Fatalf("expected tax 15, got %v", res.Input.TaxRate)
	}
}

func TestValidateInputFieldRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RawInput)
		field   string
		message string
	}{
		{"price empty", func(r *RawInput) { r.Price = "  " }, "price", "Required"},
		{"price non numeric", func(r *RawInput) { r.Price = "abc" }, "price", "Must be a number"},
		{"price negative", func(r *RawInput) { r.Price = "-5" }, "price", "Must be positive"},
		{"price nan literal", func(r *RawInput) { r.Price = "NaN" }, "price", "Must be a number"},
		{"term empty", func(r *RawInput) { r.Term = "" }, "term", "Required"},
		{"term not offered", func(r *RawInput) { r.Term = "25" }, "term", "Must be one of 15, 20, 30"},
		{"term not integer", func(r *RawInput) { r.Term = "thirty" }, "term", "Must be one of 15, 20, 30"},
		{"rate empty", func(r *RawInput) { r.Rate = "" }, "rate", "Required"},
		{"rate non numeric", func(r *RawInput) { r.Rate = "x" }, "rate", "Must be a number"},
		{"rate zero", func(r *RawInput) { r.Rate = "0" }, "rate", "Must be positive"},
		{"rate negative", func(r *RawInput) { r.Rate = "-1" }, "rate", "Must be positive"},
		{"tax empty", func(r *RawInput) { r.Tax = "" }, "tax", "Required"},
		{"tax below grid", func(r *RawInput) { r.Tax = "4" }, "tax", "Must be between 5.0 and 30.5 in steps of 0.5"},
		{"tax above grid", func(r *RawInput) { r.Tax = "31" }, "tax", "Must be between 5.0 and 30.5 in steps of 0.5"},
		{"tax off step", func(r *RawInput) { r.Tax = "10.3" }, "tax", "Must be between 5.0 and 30.5 in steps of 0.5"},
		{"insurance negative", func(r *RawInput) { r.Insurance = "-1" }, "insurance", "Must be zero or greater"},
		{"hoa non numeric", func(r *RawInput) { r.HOAFee = "nope" }, "hoaFee", "Must be a number"},
		{"buydown negative", func(r *RawInput) { r.PrincipalBuydown = "-100" }, "principalBuydown", "Must be zero or greater"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(&raw)
			res := ValidateInput(raw)
			if res.OK {
				t.Fatal("expected validation failure")
			}
			msg, found := errorFor(res, tc.field)
			if !found {
				t.Fatalf("no error for field %s: %v", tc.field, res.Errors)
			}
			if msg != tc.message {
				t.Fatalf("field %s: message %q, want %q", tc.field, msg, tc.message)
			}
		})
	}
}

func TestValidateInputZeroPriceAccepted(t *testing.T) {
	raw := validRaw()
	raw.Price = "0"
	if res := ValidateInput(raw); !res.OK {
		t.Fatalf("zero price should pass, got %v", res.Errors)
	}
}

func TestValidateInputTaxRoundedToGridPrecision(t *testing.T) {
	raw := validRaw()
	raw.Tax = "10.499999"
	res := ValidateInput(raw)
	if !res.OK {
		t.Fatalf("near-step tax should pass, got %v", res.Errors)
	}
	if res.Input.TaxRate != 10.5 {
		t.Fatalf("expected tax snapped to 10.5, got %v", res.Input.TaxRate)
	}
}

func TestValidateInputAggregatesAllErrors(t *testing.T) {
	res := ValidateInput(RawInput{
		Price:            "",
		Term:             "25",
		Rate:             "abc",
		Tax:              "4",
		Insurance:        "50",
		HOAFee:           "0",
		PrincipalBuydown: "0",
	})
	if res.OK {
		t.Fatal("expected validation failure")
	}
	for _, field := range []string{"price", "term", "rate", "tax"} {
		if _, found := errorFor(res, field); !found {
			t.Fatalf("missing error for %s: %v", field, res.Errors)
		}
	}
	if len(res.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestValidateInputAllFieldsMissing(t *testing.T) {
	res := ValidateInput(RawInput{})
	if res.OK {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) != 7 {
		t.Fatalf("expected 7 required errors, got %d: %v", len(res.Errors), res.Errors)
	}
	for _, e := range res.Errors {
		if e.Message != "Required" {
			t.Fatalf("field %s: expected Required, got %q", e.Field, e.Message)
		}
	}
}

func TestValidateInputWithRatesMembership(t *testing.T) {
	table := domain.RateTable{
		15: {5.75, 6.0},
		30: {6.25, 6.5},
	}

	raw := validRaw()
	if res := ValidateInputWithRates(raw, table); !res.OK {
		t.Fatalf("listed rate should pass, got %v", res.Errors)
	}

	raw.Rate = "5.75"
	res := ValidateInputWithRates(raw, table)
	if res.OK {
		t.Fatal("expected failure for rate not quoted on 30y term")
	}
	if msg, _ := errorFor(res, "rate"); msg != "Not an offered rate for the selected term" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestValidateInputWithRatesSkipsMembershipOnBadTerm(t *testing.T) {
	table := domain.RateTable{30: {6.5}}
	raw := validRaw()
	raw.Term = "25"
	raw.Rate = "9.99"

	res := ValidateInputWithRates(raw, table)
	if res.OK {
		t.Fatal("expected failure for term")
	}
	if _, found := errorFor(res, "rate"); found {
		t.Fatalf("rate membership should be skipped when term is invalid: %v", res.Errors)
	}
}
