package dashboard

import (
	"fmt"
	"strconv"

	"marketdash/internal/model"
)

// FormatMetrics renders raw summary values into the display mapping. The
// result always contains every metric key; values the provider omitted
// carry the "N/A" sentinel.
func FormatMetrics(info model.SummaryInfo) model.SymbolMetrics {
	return model.SymbolMetrics{
		model.MetricPERatio:       formatRatio(info.TrailingPE),
		model.MetricDividendYield: FormatDividendYield(info.DividendYield),
		model.MetricBeta:          formatRatio(info.Beta),
		model.MetricMarketCap:     formatMarketCap(info.MarketCap),
	}
}

// EmptyMetrics returns a mapping with every key set to the sentinel.
func EmptyMetrics() model.SymbolMetrics {
	m := make(model.SymbolMetrics, len(model.MetricKeys))
	for _, k := range model.MetricKeys {
		m[k] = model.Unavailable
	}
	return m
}

// FormatDividendYield renders a raw yield fraction as a percentage string
// with two decimal places ("1.23%"). Zero and missing both collapse to the
// sentinel: a reported zero yield is indistinguishable from no dividend.
func FormatDividendYield(v *float64) string {
	if v == nil || *v == 0 {
		return model.Unavailable
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func formatRatio(v *float64) string {
	if v == nil {
		return model.Unavailable
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatMarketCap(v *float64) string {
	if v == nil {
		return model.Unavailable
	}
	return strconv.FormatInt(int64(*v), 10)
}
