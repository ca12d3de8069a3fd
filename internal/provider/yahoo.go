package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"marketdash/internal/model"
)

// Lookback window for daily history. The dashboard always shows one year.
const historyRange = "1y"

// fundamentalsLookback bounds the fundamentals-timeseries query; annual
// statements only go back a handful of periods.
const fundamentalsLookback = 5 * 365 * 24 * time.Hour

// YahooProvider implements Provider using the Yahoo Finance public API.
type YahooProvider struct {
	Client *http.Client

	// Base URLs are overridable so tests can point at a local server.
	ChartBaseURL        string
	SummaryBaseURL      string
	FundamentalsBaseURL string
}

// NewYahooProvider creates a Yahoo Finance provider with optional proxy support.
func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		ChartBaseURL:        "https://query1.finance.yahoo.com",
		SummaryBaseURL:      "https://query1.finance.yahoo.com",
		FundamentalsBaseURL: "https://query1.finance.yahoo.com",
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooValue is Yahoo's {"raw": n, "fmt": "..."} number wrapper.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchDailyHistory returns one year of daily bars in chronological order.
func (p *YahooProvider) FetchDailyHistory(ctx context.Context, symbol string) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		p.ChartBaseURL, url.PathEscape(symbol), historyRange)

	body, err := p.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	for name, col := range map[string][]interface{}{
		"open": quote.Open, "high": quote.High, "low": quote.Low,
		"close": quote.Close, "volume": quote.Volume,
	} {
		if len(col) < len(result.Timestamp) {
			return nil, fmt.Errorf("yahoo decode chart: %s column has %d entries for %d timestamps",
				name, len(col), len(result.Timestamp))
		}
	}
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// yahooSummary is the response structure from the quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE    yahooValue `json:"trailingPE"`
				DividendYield yahooValue `json:"dividendYield"`
				Beta          yahooValue `json:"beta"`
				MarketCap     yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				Beta yahooValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchSummary returns the symbol's raw summary metrics. Absent fields stay nil.
func (p *YahooProvider) FetchSummary(ctx context.Context, symbol string) (model.SummaryInfo, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics",
		p.SummaryBaseURL, url.PathEscape(symbol))

	body, err := p.get(ctx, u)
	if err != nil {
		return model.SummaryInfo{}, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return model.SummaryInfo{}, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return model.SummaryInfo{}, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.SummaryInfo{}, fmt.Errorf("yahoo: no summary returned for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	info := model.SummaryInfo{
		TrailingPE:    r.SummaryDetail.TrailingPE.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
		Beta:          r.SummaryDetail.Beta.Raw,
		MarketCap:     r.SummaryDetail.MarketCap.Raw,
	}
	if info.Beta == nil {
		info.Beta = r.DefaultKeyStatistics.Beta.Raw
	}
	return info, nil
}

// Yahoo fundamentals-timeseries type keys for the selected line items.
var balanceSheetTypes = map[string]string{
	"annualTotalAssets": model.ItemTotalAssets,
	"annualTotalDebt":   model.ItemTotalDebt,
}

var incomeStatementTypes = map[string]string{
	"annualTotalRevenue":     model.ItemTotalRevenue,
	"annualEBITDA":           model.ItemEBITDA,
	"annualBasicEPS":         model.ItemBasicEPS,
	"annualOperatingIncome":  model.ItemOperatingIncome,
	"annualOperatingExpense": model.ItemOperatingExpense,
}

// FetchBalanceSheet returns Total Assets and Total Debt by reporting period.
func (p *YahooProvider) FetchBalanceSheet(ctx context.Context, symbol string) (model.Statement, error) {
	return p.fetchStatement(ctx, symbol, balanceSheetTypes)
}

// FetchIncomeStatement returns the selected income-statement line items by
// reporting period.
func (p *YahooProvider) FetchIncomeStatement(ctx context.Context, symbol string) (model.Statement, error) {
	return p.fetchStatement(ctx, symbol, incomeStatementTypes)
}

// yahooTimeseries is the envelope of the fundamentals-timeseries API. Each
// result embeds its data points under a key equal to the requested type
// name, so the points are extracted via a second, keyed decode.
type yahooTimeseries struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *yahooError       `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Type []string `json:"type"`
	} `json:"meta"`
}

type timeseriesPoint struct {
	AsOfDate      string     `json:"asOfDate"`
	ReportedValue yahooValue `json:"reportedValue"`
}

// fetchStatement queries the fundamentals-timeseries API for the given type
// keys and maps them to display line items. Every requested line item must
// come back with at least one value; a missing item is a hard failure.
func (p *YahooProvider) fetchStatement(ctx context.Context, symbol string, types map[string]string) (model.Statement, error) {
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now()
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?type=%s&period1=%d&period2=%d",
		p.FundamentalsBaseURL, url.PathEscape(symbol), strings.Join(keys, ","),
		now.Add(-fundamentalsLookback).Unix(), now.Unix())

	body, err := p.get(ctx, u)
	if err != nil {
		return model.Statement{}, err
	}

	var ts yahooTimeseries
	if err := json.Unmarshal(body, &ts); err != nil {
		return model.Statement{}, fmt.Errorf("yahoo decode timeseries: %w", err)
	}
	if ts.Timeseries.Error != nil {
		return model.Statement{}, fmt.Errorf("yahoo api error: %s", ts.Timeseries.Error.Description)
	}

	stmt := model.Statement{Items: make(map[string]map[string]float64)}
	periodSet := make(map[string]bool)

	for _, raw := range ts.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		typeKey := meta.Meta.Type[0]
		item, wanted := types[typeKey]
		if !wanted {
			continue
		}

		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return model.Statement{}, fmt.Errorf("yahoo decode timeseries result: %w", err)
		}
		pointsRaw, ok := keyed[typeKey]
		if !ok {
			continue
		}
		var points []*timeseriesPoint
		if err := json.Unmarshal(pointsRaw, &points); err != nil {
			return model.Statement{}, fmt.Errorf("yahoo decode %s points: %w", typeKey, err)
		}

		for _, pt := range points {
			if pt == nil || pt.ReportedValue.Raw == nil || pt.AsOfDate == "" {
				continue
			}
			if stmt.Items[item] == nil {
				stmt.Items[item] = make(map[string]float64)
			}
			stmt.Items[item][pt.AsOfDate] = *pt.ReportedValue.Raw
			periodSet[pt.AsOfDate] = true
		}
	}

	// Selecting a line item the provider omits is a hard failure, not a
	// partial result.
	for _, item := range types {
		if len(stmt.Items[item]) == 0 {
			return model.Statement{}, fmt.Errorf("yahoo: %s missing line item %q", symbol, item)
		}
	}

	stmt.Periods = make([]string, 0, len(periodSet))
	for period := range periodSet {
		stmt.Periods = append(stmt.Periods, period)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stmt.Periods)))
	return stmt, nil
}
