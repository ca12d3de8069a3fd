// Package warmer pre-fetches the fixed watchlists on a cron schedule so
// interactive requests hit a warm cache instead of blocking on retries.
package warmer

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"marketdash/internal/dashboard"
)

// Warmer runs scheduled cache warming over the watchlist symbols.
type Warmer struct {
	cron    *cron.Cron
	svc     *dashboard.Service
	indices []string
	stocks  []string
	ctx     context.Context
}

// New creates a Warmer for the given watchlists.
func New(ctx context.Context, svc *dashboard.Service, indices, stocks []string) *Warmer {
	return &Warmer{
		cron:    cron.New(cron.WithSeconds()),
		svc:     svc,
		indices: indices,
		stocks:  stocks,
		ctx:     ctx,
	}
}

// Register schedules the warm job.
func (w *Warmer) Register(spec string) error {
	_, err := w.cron.AddFunc(spec, w.warm)
	return err
}

// Start starts the cron scheduler.
func (w *Warmer) Start() {
	w.cron.Start()
	log.Println("[INFO] cache warmer started")
}

// Stop stops the cron scheduler gracefully.
func (w *Warmer) Stop() {
	w.cron.Stop()
	log.Println("[INFO] cache warmer stopped")
}

// RunNow executes the warm job immediately (for RUN_ON_START).
func (w *Warmer) RunNow() {
	w.warm()
}

func (w *Warmer) warm() {
	start := time.Now()
	log.Println("[INFO] warming cache for watchlist symbols")

	for _, symbol := range w.indices {
		if w.ctx.Err() != nil {
			return
		}
		if hist := w.svc.IndexHistory(w.ctx, symbol); hist.Empty() {
			log.Printf("[WARN] warm: no index data for %s", symbol)
		}
	}
	for _, symbol := range w.stocks {
		if w.ctx.Err() != nil {
			return
		}
		if ov := w.svc.StockOverview(w.ctx, symbol); ov.History.Empty() {
			log.Printf("[WARN] warm: no stock data for %s", symbol)
		}
		if snap := w.svc.Financials(w.ctx, symbol); snap.Empty() {
			log.Printf("[WARN] warm: no financial data for %s", symbol)
		}
	}

	log.Printf("[INFO] cache warm finished in %v", time.Since(start))
}
