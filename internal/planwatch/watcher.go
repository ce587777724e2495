// Package planwatch keeps a sales-plan snapshot fresh by polling the seller
// service on a fixed interval.
package planwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

var meter = otel.Meter("planwatch")

// ListFunc fetches the current sales plans. It follows the lenient listing
// contract: it never fails, it just returns what it got.
type ListFunc func(ctx context.Context) []domain.SalesPlan

// Watcher re-fetches sales plans on a ticker and serves the latest snapshot.
// Ticks do not wait for each other, so a slow response can arrive after a
// later tick already answered; the discipline is latest-started request wins.
// Each poll gets a sequence number at start and its response is applied only
// if no later poll's response has been applied yet. Superseded responses are
// discarded and counted.
type Watcher struct {
	list     ListFunc
	interval time.Duration
	logger   *slog.Logger

	superseded metric.Int64Counter

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
	plans      []domain.SalesPlan
}

func New(list ListFunc, interval time.Duration, logger *slog.Logger) *Watcher {
	superseded, err := meter.Int64Counter("sales_plans.poll.superseded")
	if err != nil {
		logger.Error("failed to create superseded counter", "error", err)
	}

	return &Watcher{
		list:       list,
		interval:   interval,
		logger:     logger,
		superseded: superseded,
	}
}

// Run polls until the context is cancelled. It fetches once immediately so
// the snapshot is populated before the first tick.
func (w *Watcher) Run(ctx context.Context) {
	go w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go w.poll(ctx)
		}
	}
}

// Snapshot returns the most recently applied plan list. It never blocks on
// in-flight fetches.
func (w *Watcher) Snapshot() []domain.SalesPlan {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.SalesPlan, len(w.plans))
	copy(out, w.plans)
	return out
}

func (w *Watcher) poll(ctx context.Context) {
	w.mu.Lock()
	w.nextSeq++
	seq := w.nextSeq
	w.mu.Unlock()

	plans := w.list(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq <= w.appliedSeq {
		w.logger.Debug("discarding superseded poll response", "seq", seq, "applied_seq", w.appliedSeq)
		if w.superseded != nil {
			w.superseded.Add(ctx, 1)
		}
		return
	}

	w.appliedSeq = seq
	w.plans = plans
}
