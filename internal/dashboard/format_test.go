package dashboard

import (
	"testing"

	"marketdash/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestFormatDividendYield(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"typical fraction", fp(0.0123), "1.23%"},
		{"rounds to two decimals", fp(0.00456), "0.46%"},
		{"large yield", fp(0.1), "10.00%"},
		{"zero collapses to sentinel", fp(0), "N/A"},
		{"missing", nil, "N/A"},
	}
	for _, tt := range tests {
		if got := FormatDividendYield(tt.in); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestFormatMetrics_AllKeysAlwaysPresent(t *testing.T) {
	m := FormatMetrics(model.SummaryInfo{
		TrailingPE:    fp(28.456),
		DividendYield: fp(0.0123),
		MarketCap:     fp(2500000000000),
	})
	if len(m) != len(model.MetricKeys) {
		t.Fatalf("expected %d keys, got %d", len(model.MetricKeys), len(m))
	}
	if m[model.MetricPERatio] != "28.46" {
		t.Errorf("PE: got %q", m[model.MetricPERatio])
	}
	if m[model.MetricDividendYield] != "1.23%" {
		t.Errorf("dividend yield: got %q", m[model.MetricDividendYield])
	}
	if m[model.MetricBeta] != model.Unavailable {
		t.Errorf("missing beta should render sentinel, got %q", m[model.MetricBeta])
	}
	if m[model.MetricMarketCap] != "2500000000000" {
		t.Errorf("market cap: got %q", m[model.MetricMarketCap])
	}
}

func TestEmptyMetrics(t *testing.T) {
	m := EmptyMetrics()
	for _, k := range model.MetricKeys {
		if m[k] != model.Unavailable {
			t.Errorf("key %q: expected sentinel, got %q", k, m[k])
		}
	}
}
