package model

// Unavailable is the placeholder for a metric the provider did not supply.
const Unavailable = "N/A"

// Metric display keys. A SymbolMetrics mapping always contains all of them.
const (
	MetricPERatio       = "PE Ratio"
	MetricDividendYield = "Dividend Yield"
	MetricBeta          = "Beta"
	MetricMarketCap     = "Market Cap"
)

// MetricKeys lists the metric keys in display order.
var MetricKeys = []string{MetricPERatio, MetricDividendYield, MetricBeta, MetricMarketCap}

// SymbolMetrics maps metric name to its formatted value or Unavailable.
type SymbolMetrics map[string]string

// SummaryInfo is the raw summary snapshot from the provider. A nil field
// means the provider omitted the value for this symbol.
type SummaryInfo struct {
	TrailingPE    *float64
	DividendYield *float64 // raw fraction, e.g. 0.0123
	Beta          *float64
	MarketCap     *float64
}
