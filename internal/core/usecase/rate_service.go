package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/ports"
)

// RateService stores daily rate-sheet snapshots and serves the current one.
// Storage is de-duplicated by content fingerprint: a feed that publishes the
// same rates two days in a row produces one stored sheet.
type RateService struct {
	repo  ports.RateSheetRepository
	cache ports.RateCache
}

func NewRateService(repo ports.RateSheetRepository, cache ports.RateCache) *RateService {
	return &RateService{repo: repo, cache: cache}
}

// Store persists a fetched table unless an identical sheet already exists.
// The second return reports whether a new sheet was written.
func (s *RateService) Store(ctx context.Context, table domain.RateTable, source string, fetchedAt time.Time) (domain.RateSheet, bool, error) {
	if err := table.Validate(); err != nil {
		return domain.RateSheet{}, false, err
	}

	fingerprint := table.Fingerprint()
	existing, err := s.repo.FindByFingerprint(ctx, fingerprint)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.RateSheet{}, false, fmt.Errorf("check rate sheet fingerprint: %w", err)
	}

	sheet, err := s.repo.Insert(ctx, domain.RateSheet{
		ID:          uuid.NewString(),
		Table:       table,
		Fingerprint: fingerprint,
		Source:      source,
		FetchedAt:   fetchedAt.UTC(),
	})
	if err != nil {
		return domain.RateSheet{}, false, fmt.Errorf("insert rate sheet: %w", err)
	}

	// Cache is an optimization; the sheet is already durable.
	_ = s.cache.Set(ctx, sheet)
	return sheet, true, nil
}

// Current returns the newest stored sheet, cache-aside. domain.ErrNotFound
// when no sheet has ever been stored.
func (s *RateService) Current(ctx context.Context) (domain.RateSheet, error) {
	if sheet, ok := s.cache.Get(ctx); ok {
		return sheet, nil
	}

	sheet, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RateSheet{}, domain.ErrNotFound
		}
		return domain.RateSheet{}, fmt.Errorf("load latest rate sheet: %w", err)
	}

	_ = s.cache.Set(ctx, sheet)
	return sheet, nil
}

func (s *RateService) History(ctx context.Context, limit int) ([]domain.RateSheet, error) {
	if limit <= 0 {
		limit = 30
	}
	if limit > 365 {
		limit = 365
	}
	return s.repo.List(ctx, limit)
}
