package usecase

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/ports"
)

// RateRefresher polls the upstream rate feed on a fixed cadence and stores
// each fetch through RateService. An unchanged feed is counted but not
// re-stored thanks to fingerprint de-duplication.
type RateRefresher struct {
	source   ports.RateSource
	rates    *RateService
	interval time.Duration
	label    string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	refreshStoredTotal    atomic.Int64
	refreshUnchangedTotal atomic.Int64
	refreshFailureTotal   atomic.Int64
}

type RateRefresherMetrics struct {
	RefreshStoredTotal    int64
	RefreshUnchangedTotal int64
	RefreshFailureTotal   int64
}

func NewRateRefresher(source ports.RateSource, rates *RateService, interval time.Duration, label string) *RateRefresher {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if label == "" {
		label = "feed"
	}
	return &RateRefresher{source: source, rates: rates, interval: interval, label: label}
}

func (r *RateRefresher) Start(parent context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.wg.Add(1)
	go r.loop(ctx)
}

func (r *RateRefresher) Close() error {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	return nil
}

func (r *RateRefresher) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.RefreshOnce(ctx); err != nil {
			log.Printf("rate refresh from %s failed: %v", r.label, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshOnce fetches and stores one snapshot. Also called directly at
// startup so a fresh deployment has rates before the first tick.
func (r *RateRefresher) RefreshOnce(ctx context.Context) error {
	table, err := r.source.Fetch(ctx)
	if err != nil {
		r.refreshFailureTotal.Add(1)
		return err
	}

	sheet, stored, err := r.rates.Store(ctx, table, r.label, time.Now().UTC())
	if err != nil {
		r.refreshFailureTotal.Add(1)
		return err
	}

	if stored {
		r.refreshStoredTotal.Add(1)
		log.Printf("stored rate sheet %s from %s (%d terms)", sheet.ID, r.label, len(sheet.Table))
	} else {
		r.refreshUnchangedTotal.Add(1)
	}
	return nil
}

func (r *RateRefresher) Metrics() RateRefresherMetrics {
	return RateRefresherMetrics{
		RefreshStoredTotal:    r.refreshStoredTotal.Load(),
		RefreshUnchangedTotal: r.refreshUnchangedTotal.Load(),
		RefreshFailureTotal:   r.refreshFailureTotal.Load(),
	}
}
