package model

import "time"

// Bar represents a single daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Row is a Bar enriched with derived indicator columns. The derived
// fields are nil for the first 19 rows of a series (insufficient window).
type Row struct {
	Bar
	SMA20      *float64 `json:"sma_20"`
	EMA20      *float64 `json:"ema_20"`
	Volatility *float64 `json:"volatility"`
}

// History holds one symbol's daily time series. Rows are in
// chronological order. A zero-row History means the fetch failed.
type History struct {
	Symbol    string    `json:"symbol"`
	Rows      []Row     `json:"rows"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether there is nothing to render.
func (h History) Empty() bool { return len(h.Rows) == 0 }

// Closes returns the close column of the series.
func (h History) Closes() []float64 {
	closes := make([]float64, len(h.Rows))
	for i, r := range h.Rows {
		closes[i] = r.Close
	}
	return closes
}
