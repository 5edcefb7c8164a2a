package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// AllowedTerms are the loan terms the program offers, in years.
var AllowedTerms = []int{15, 20, 30}

func TermAllowed(termYears int) bool {
	for _, t := range AllowedTerms {
		if t == termYears {
			return true
		}
	}
	return false
}

// RateTable maps a term in years to the interest rates currently quoted for it.
type RateTable map[int][]float64

// Contains reports whether rate is quoted for termYears. Rates are compared to
// the hundredth of a percentage point, the precision upstream feeds publish.
func (t RateTable) Contains(termYears int, rate float64) bool {
	for _, r := range t[termYears] {
		if fmt.Sprintf("%.2f", r) == fmt.Sprintf("%.2f", rate) {
			return true
		}
	}
	return false
}

func (t RateTable) Validate() error {
	if len(t) == 0 {
		return errors.New("rate table must not be empty")
	}
	for term, rates := range t {
		if !TermAllowed(term) {
			return fmt.Errorf("rate table term %d not offered", term)
		}
		if len(rates) == 0 {
			return fmt.Errorf("rate table term %d has no rates", term)
		}
		for _, r := range rates {
			if r <= 0 {
				return fmt.Errorf("rate table term %d has non-positive rate %v", term, r)
			}
		}
	}
	return nil
}

// Fingerprint is a content hash of the table, stable across map ordering.
// Two sheets fetched on different days with identical rates share a
// fingerprint, which is what rate-sheet de-duplication keys on.
func (t RateTable) Fingerprint() string {
	terms := make([]int, 0, len(t))
	for term := range t {
		terms = append(terms, term)
	}
	sort.Ints(terms)

	canonical := make([][]any, 0, len(terms))
	for _, term := range terms {
		rates := append([]float64(nil), t[term]...)
		sort.Float64s(rates)
		canonical = append(canonical, []any{term, rates})
	}

	encoded, _ := json.Marshal(canonical)
	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:])
}

// RateSheet is one stored snapshot of the upstream rate feed.
type RateSheet struct {
	ID          string
	Table       RateTable
	Fingerprint string
	Source      string
	FetchedAt   time.Time
	CreatedAt   time.Time
}
