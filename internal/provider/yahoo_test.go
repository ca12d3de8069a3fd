package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketdash/internal/model"
)

func yahooForTest(ts *httptest.Server) *YahooProvider {
	p := NewYahooProvider("")
	p.ChartBaseURL = ts.URL
	p.SummaryBaseURL = ts.URL
	p.FundamentalsBaseURL = ts.URL
	return p
}

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1700000000, 1700086400, 1700172800, 1700259200],
			"indicators": {
				"quote": [{
					"open":   [100.0, null, 102.0, 103.0],
					"high":   [101.0, null, 103.5, 104.0],
					"low":    [99.5,  null, 101.0, 102.5],
					"close":  [100.5, null, 103.0, 103.5],
					"volume": [1000000, null, 1200000, 900000]
				}]
			}
		}],
		"error": null
	}
}`

func TestFetchDailyHistory_ParsesAndSkipsNullBars(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "1y" {
			t.Errorf("expected 1y lookback, got %q", r.URL.Query().Get("range"))
		}
		w.Write([]byte(chartBody))
	}))
	defer ts.Close()

	bars, err := yahooForTest(ts).FetchDailyHistory(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars (null bar skipped), got %d", len(bars))
	}
	if bars[0].Close != 100.5 || bars[2].Close != 103.5 {
		t.Errorf("unexpected closes: %v, %v", bars[0].Close, bars[2].Close)
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Date.Before(bars[i-1].Date) {
			t.Error("bars must be chronological")
		}
	}
}

func TestFetchDailyHistory_TruncatedQuoteColumns(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Five timestamps but only two entries per quote column.
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1700000000, 1700086400, 1700172800, 1700259200, 1700345600],
					"indicators": {
						"quote": [{
							"open":   [100.0, 101.0],
							"high":   [101.0, 102.0],
							"low":    [99.5, 100.5],
							"close":  [100.5, 101.5],
							"volume": [1000000, 1100000]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer ts.Close()

	_, err := yahooForTest(ts).FetchDailyHistory(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected decode error for truncated quote columns")
	}
	if !strings.Contains(err.Error(), "yahoo decode chart") {
		t.Errorf("expected a decode error, got: %v", err)
	}
}

func TestFetchDailyHistory_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer ts.Close()

	if _, err := yahooForTest(ts).FetchDailyHistory(context.Background(), "BOGUS"); err == nil {
		t.Fatal("expected error for provider-reported failure")
	}
}

func TestFetchDailyHistory_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	if _, err := yahooForTest(ts).FetchDailyHistory(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFetchSummary_PartialFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"summaryDetail": {
						"trailingPE": {"raw": 28.5, "fmt": "28.50"},
						"dividendYield": {"raw": 0.0123, "fmt": "1.23%"},
						"marketCap": {"raw": 2500000000000, "fmt": "2.5T"}
					},
					"defaultKeyStatistics": {
						"beta": {"raw": 1.29, "fmt": "1.29"}
					}
				}],
				"error": null
			}
		}`))
	}))
	defer ts.Close()

	info, err := yahooForTest(ts).FetchSummary(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.TrailingPE == nil || *info.TrailingPE != 28.5 {
		t.Errorf("unexpected trailing PE: %v", info.TrailingPE)
	}
	if info.DividendYield == nil || *info.DividendYield != 0.0123 {
		t.Errorf("unexpected dividend yield: %v", info.DividendYield)
	}
	// Beta missing from summaryDetail falls back to key statistics.
	if info.Beta == nil || *info.Beta != 1.29 {
		t.Errorf("unexpected beta: %v", info.Beta)
	}
	if info.MarketCap == nil || *info.MarketCap != 2500000000000 {
		t.Errorf("unexpected market cap: %v", info.MarketCap)
	}
}

const balanceBody = `{
	"timeseries": {
		"result": [
			{
				"meta": {"type": ["annualTotalAssets"]},
				"annualTotalAssets": [
					{"asOfDate": "2022-12-31", "reportedValue": {"raw": 352583, "fmt": "352.58B"}},
					null,
					{"asOfDate": "2023-12-31", "reportedValue": {"raw": 352755, "fmt": "352.76B"}}
				]
			},
			{
				"meta": {"type": ["annualTotalDebt"]},
				"annualTotalDebt": [
					{"asOfDate": "2022-12-31", "reportedValue": {"raw": 132480, "fmt": "132.48B"}},
					{"asOfDate": "2023-12-31", "reportedValue": {"raw": 111088, "fmt": "111.09B"}}
				]
			}
		],
		"error": null
	}
}`

func TestFetchBalanceSheet_SelectsAndIndexesByPeriod(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "annualTotalAssets") {
			t.Errorf("expected balance-sheet types in query, got %s", r.URL.RawQuery)
		}
		w.Write([]byte(balanceBody))
	}))
	defer ts.Close()

	stmt, err := yahooForTest(ts).FetchBalanceSheet(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Newest period first.
	if len(stmt.Periods) != 2 || stmt.Periods[0] != "2023-12-31" {
		t.Errorf("unexpected periods: %v", stmt.Periods)
	}
	if stmt.Items[model.ItemTotalAssets]["2023-12-31"] != 352755 {
		t.Errorf("unexpected total assets: %v", stmt.Items[model.ItemTotalAssets])
	}
	if stmt.Items[model.ItemTotalDebt]["2022-12-31"] != 132480 {
		t.Errorf("unexpected total debt: %v", stmt.Items[model.ItemTotalDebt])
	}
}

func TestFetchBalanceSheet_MissingLineItemIsHardFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Total Debt entirely absent from the response.
		w.Write([]byte(`{
			"timeseries": {
				"result": [
					{
						"meta": {"type": ["annualTotalAssets"]},
						"annualTotalAssets": [
							{"asOfDate": "2023-12-31", "reportedValue": {"raw": 352755, "fmt": "352.76B"}}
						]
					}
				],
				"error": null
			}
		}`))
	}))
	defer ts.Close()

	_, err := yahooForTest(ts).FetchBalanceSheet(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected hard failure for missing line item")
	}
	if !strings.Contains(err.Error(), "Total Debt") {
		t.Errorf("expected error to name the missing item, got: %v", err)
	}
}
