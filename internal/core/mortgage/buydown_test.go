package mortgage

import (
	"math"
	"testing"
)

func TestRateBuydownCost(t *testing.T) {
	cases := []struct {
		name          string
		principal     float64
		original      float64
		desired       float64
		termYears     int
		wantCost      float64
		wantReduction float64
	}{
		{"half point on 30y", 300000, 6.5, 6.0, 30, 9000, 0.5},
		{"half point on 20y", 300000, 6.5, 6.0, 20, 9000, 0.5},
		{"half point on 15y", 300000, 6.5, 6.0, 15, 6000, 0.5},
		{"capped at 1.5 points", 300000, 6.5, 4.5, 30, 27000, 1.5},
		{"no reduction requested", 300000, 6.5, 6.5, 30, 0, 0},
		{"rate increase requested", 300000, 6.5, 7.0, 30, 0, 0},
		{"zero principal", 0, 6.5, 6.0, 30, 0, 0},
		{"negative principal", -1000, 6.5, 6.0, 30, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, reduction := RateBuydownCost(tc.principal, tc.original, tc.desired, tc.termYears)
			if !approx(cost, tc.wantCost, 0.01) {
				t.Fatalf("cost = %v, want %v", cost, tc.wantCost)
			}
			if !approx(reduction, tc.wantReduction, 0.0001) {
				t.Fatalf("reduction = %v, want %v", reduction, tc.wantReduction)
			}
		})
	}
}

func TestRateBuydownCostNonFinitePrincipal(t *testing.T) {
	for _, principal := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cost, reduction := RateBuydownCost(principal, 6.5, 6.0, 30)
		if cost != 0 || reduction != 0 {
			t.Fatalf("principal %v: cost %v reduction %v, want zeros", principal, cost, reduction)
		}
	}
}

func TestRateBuydownCostMonotonicThenFlat(t *testing.T) {
	prev := -1.0
	for desired := 6.5; desired >= 4.0; desired -= 0.25 {
		cost, _ := RateBuydownCost(300000, 6.5, desired, 30)
		if cost < prev {
			t.Fatalf("cost decreased at desired rate %v: %v after %v", desired, cost, prev)
		}
		prev = cost
	}

	// Beyond the 1.5-point cap the cost stops growing.
	atCap, _ := RateBuydownCost(300000, 6.5, 5.0, 30)
	pastCap, _ := RateBuydownCost(300000, 6.5, 3.0, 30)
	if atCap != pastCap {
		t.Fatalf("cost past cap %v differs from cost at cap %v", pastCap, atCap)
	}
}
