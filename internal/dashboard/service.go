// Package dashboard is the fetch-and-cache layer. It wraps the provider
// with the retry policy, caches successful results under a per-operation
// key, deduplicates concurrent fetches for the same key, and never lets a
// provider failure escape to its callers: exhausted retries produce an
// explicitly empty result.
package dashboard

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"marketdash/internal/cache"
	"marketdash/internal/calculator"
	"marketdash/internal/model"
	"marketdash/internal/notifier"
	"marketdash/internal/provider"
	"marketdash/internal/recorder"
	"marketdash/internal/retry"
)

// Cache key prefixes, one per fetch operation.
const (
	opIndexHistory  = "index_history"
	opStockOverview = "stock_overview"
	opFinancials    = "financials"
)

// derivedWindow is the fixed window/span for all derived columns.
const derivedWindow = 20

// Overview bundles a stock's history with its summary metrics. Both parts
// are fetched in the same attempt and retried together.
type Overview struct {
	History model.History       `json:"history"`
	Metrics model.SymbolMetrics `json:"metrics"`
}

// Service is the fetch-and-cache layer serving both dashboards.
type Service struct {
	provider provider.Provider
	cache    *cache.Store
	policy   retry.Policy
	recorder recorder.Recorder
	notifier notifier.Notifier
	group    singleflight.Group
	now      func() time.Time
}

// NewService creates the fetch-and-cache service.
func NewService(p provider.Provider, c *cache.Store, policy retry.Policy, rec recorder.Recorder, n notifier.Notifier) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if n == nil {
		n = notifier.NewNoopNotifier()
	}
	return &Service{
		provider: p,
		cache:    c,
		policy:   policy,
		recorder: rec,
		notifier: n,
		now:      time.Now,
	}
}

// IndexHistory returns one year of daily history for an index symbol,
// enriched with SMA-20, EMA-20 and rolling std-20 over the close price.
// An empty History means the provider could not be reached.
func (s *Service) IndexHistory(ctx context.Context, symbol string) model.History {
	v := s.cached(ctx, opIndexHistory, symbol, func(ctx context.Context) (any, error) {
		bars, err := s.provider.FetchDailyHistory(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return s.enrich(symbol, bars), nil
	})
	if v == nil {
		return model.History{Symbol: symbol}
	}
	return v.(model.History)
}

// StockOverview returns one year of daily history plus the summary metrics
// mapping for a stock symbol. The metrics mapping always contains all
// expected keys; unavailable values carry the "N/A" sentinel.
func (s *Service) StockOverview(ctx context.Context, symbol string) Overview {
	v := s.cached(ctx, opStockOverview, symbol, func(ctx context.Context) (any, error) {
		bars, err := s.provider.FetchDailyHistory(ctx, symbol)
		if err != nil {
			return nil, err
		}
		info, err := s.provider.FetchSummary(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return Overview{
			History: s.plainHistory(symbol, bars),
			Metrics: FormatMetrics(info),
		}, nil
	})
	if v == nil {
		return Overview{History: model.History{Symbol: symbol}, Metrics: EmptyMetrics()}
	}
	return v.(Overview)
}

// Financials returns the selected balance-sheet and income-statement line
// items joined on reporting period and transposed so periods become
// columns. An empty snapshot means the provider could not be reached.
func (s *Service) Financials(ctx context.Context, symbol string) model.FinancialSnapshot {
	v := s.cached(ctx, opFinancials, symbol, func(ctx context.Context) (any, error) {
		balance, err := s.provider.FetchBalanceSheet(ctx, symbol)
		if err != nil {
			return nil, err
		}
		income, err := s.provider.FetchIncomeStatement(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return s.buildSnapshot(symbol, balance, income), nil
	})
	if v == nil {
		return model.FinancialSnapshot{Symbol: symbol}
	}
	return v.(model.FinancialSnapshot)
}

// InvalidateCache drops every cached entry (global, not scoped) and
// returns the number of entries removed.
func (s *Service) InvalidateCache() int {
	n := s.cache.InvalidateAll()
	log.Printf("[INFO] cache invalidated, %d entries dropped", n)
	return n
}

// cached runs fetch under the cache and in-flight dedup. It returns nil
// when all attempts are exhausted; the caller substitutes its empty result.
func (s *Service) cached(ctx context.Context, op, symbol string, fetch func(ctx context.Context) (any, error)) any {
	key := op + ":" + symbol
	if v, ok := s.cache.Get(key); ok {
		return v
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the key while this
		// goroutine waited on the flight.
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}

		start := s.now()
		var result any
		attempts, err := s.policy.Do(ctx, op+" "+symbol, func(ctx context.Context) error {
			r, ferr := fetch(ctx)
			if ferr != nil {
				return ferr
			}
			result = r
			return nil
		})
		s.recordFetch(op, symbol, attempts, s.now().Sub(start), err)
		if err != nil {
			log.Printf("[ERROR] %s: could not fetch data for %s: %v", op, symbol, err)
			if nerr := s.notifier.NotifyFetchFailure(op, symbol, attempts, err); nerr != nil {
				log.Printf("[ERROR] notify fetch failure: %v", nerr)
			}
			return nil, err
		}
		s.cache.Put(key, result)
		return result, nil
	})
	if err != nil {
		return nil
	}
	return v
}

func (s *Service) recordFetch(op, symbol string, attempts int, d time.Duration, err error) {
	evt := &recorder.FetchEvent{
		Operation: op,
		Symbol:    symbol,
		Attempts:  attempts,
		Success:   err == nil,
		Duration:  d,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := s.recorder.RecordFetch(evt); rerr != nil {
		log.Printf("[ERROR] record fetch event: %v", rerr)
	}
}

// enrich appends the three derived columns to a bar series.
func (s *Service) enrich(symbol string, bars []model.Bar) model.History {
	hist := s.plainHistory(symbol, bars)
	closes := hist.Closes()

	sma, err := calculator.SMASeries(closes, derivedWindow)
	if err != nil {
		log.Printf("[WARN] SMA computation failed for %s: %v", symbol, err)
	}
	ema, err := calculator.EMASeries(closes, derivedWindow)
	if err != nil {
		log.Printf("[WARN] EMA computation failed for %s: %v", symbol, err)
	}
	vol, err := calculator.RollingStdSeries(closes, derivedWindow)
	if err != nil {
		log.Printf("[WARN] volatility computation failed for %s: %v", symbol, err)
	}

	for i := range hist.Rows {
		if sma != nil {
			hist.Rows[i].SMA20 = sma[i]
		}
		if ema != nil {
			hist.Rows[i].EMA20 = ema[i]
		}
		if vol != nil {
			hist.Rows[i].Volatility = vol[i]
		}
	}
	return hist
}

func (s *Service) plainHistory(symbol string, bars []model.Bar) model.History {
	rows := make([]model.Row, len(bars))
	for i, b := range bars {
		rows[i] = model.Row{Bar: b}
	}
	return model.History{Symbol: symbol, Rows: rows, FetchedAt: s.now()}
}

// buildSnapshot inner-joins the two statements on reporting period and
// transposes the result. Periods present in only one statement are dropped.
func (s *Service) buildSnapshot(symbol string, balance, income model.Statement) model.FinancialSnapshot {
	incomePeriods := make(map[string]bool, len(income.Periods))
	for _, p := range income.Periods {
		incomePeriods[p] = true
	}
	var periods []string
	for _, p := range balance.Periods {
		if incomePeriods[p] {
			periods = append(periods, p)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	snap := model.FinancialSnapshot{Symbol: symbol, Periods: periods, FetchedAt: s.now()}
	if len(periods) == 0 {
		return snap
	}

	itemValues := func(item string) map[string]float64 {
		if v, ok := balance.Items[item]; ok {
			return v
		}
		return income.Items[item]
	}
	for _, item := range model.SnapshotItems {
		row := model.FinancialRow{Item: item, Values: make([]*float64, len(periods))}
		values := itemValues(item)
		for i, p := range periods {
			if v, ok := values[p]; ok {
				vv := v
				row.Values[i] = &vv
			}
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}
