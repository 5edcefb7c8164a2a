package domain

import "testing"

func TestRateTableFingerprintIgnoresOrder(t *testing.T) {
	a := RateTable{15: {5.75, 6.0}, 30: {6.25, 6.5}}
	b := RateTable{30: {6.5, 6.25}, 15: {6.0, 5.75}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint should not depend on map or slice order")
	}

	c := RateTable{15: {5.75, 6.0}, 30: {6.25, 6.375}}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("different rates must not collide")
	}
}

func TestRateTableContains(t *testing.T) {
	table := RateTable{30: {6.25, 6.5}}

	if !table.Contains(30, 6.5) {
		t.Fatal("expected 6.5 to be quoted for 30y")
	}
	if table.Contains(30, 6.375) {
		t.Fatal("6.375 is not quoted")
	}
	if table.Contains(15, 6.5) {
		t.Fatal("no rates quoted for 15y at all")
	}
	// Compared at feed precision, not bit equality.
	if !table.Contains(30, 6.500000001) {
		t.Fatal("expected comparison at hundredths precision")
	}
}

func TestRateTableValidate(t *testing.T) {
	cases := []struct {
		name    string
		table   RateTable
		wantErr bool
	}{
		{"valid", RateTable{15: {5.75}, 30: {6.5}}, false},
		{"empty", RateTable{}, true},
		{"unoffered term", RateTable{25: {6.0}}, true},
		{"term without rates", RateTable{30: {}}, true},
		{"non positive rate", RateTable{30: {0}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.table.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
