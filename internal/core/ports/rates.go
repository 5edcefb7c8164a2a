package ports

import (
	"context"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

type RateSheetRepository interface {
	Insert(ctx context.Context, sheet domain.RateSheet) (domain.RateSheet, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (domain.RateSheet, error)
	Latest(ctx context.Context) (domain.RateSheet, error)
	List(ctx context.Context, limit int) ([]domain.RateSheet, error)
}

// RateCache holds the most recently stored sheet so calculate requests do not
// hit sqlite on every call. A miss is never an error.
type RateCache interface {
	Get(ctx context.Context) (domain.RateSheet, bool)
	Set(ctx context.Context, sheet domain.RateSheet) error
}

// RateSource fetches the current term-keyed rate table from an upstream feed.
type RateSource interface {
	Fetch(ctx context.Context) (domain.RateTable, error)
}
