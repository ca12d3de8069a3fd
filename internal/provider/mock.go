package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketdash/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Fail makes the next N calls (across all methods) return an error, which
// lets tests script "fail k times, then succeed" retry sequences.
type MockProvider struct {
	Bars    []model.Bar
	Summary model.SummaryInfo
	Balance model.Statement
	Income  model.Statement
	Fail    int

	mu           sync.Mutex
	HistoryCalls int
	SummaryCalls int
	BalanceCalls int
	IncomeCalls  int
}

var errMockFailure = errors.New("mock provider failure")

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) failNext() bool {
	if m.Fail > 0 {
		m.Fail--
		return true
	}
	return false
}

func (m *MockProvider) FetchDailyHistory(_ context.Context, _ string) ([]model.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryCalls++
	if m.failNext() {
		return nil, errMockFailure
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateBars(100, 252), nil
}

func (m *MockProvider) FetchSummary(_ context.Context, _ string) (model.SummaryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryCalls++
	if m.failNext() {
		return model.SummaryInfo{}, errMockFailure
	}
	return m.Summary, nil
}

func (m *MockProvider) FetchBalanceSheet(_ context.Context, _ string) (model.Statement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceCalls++
	if m.failNext() {
		return model.Statement{}, errMockFailure
	}
	return m.Balance, nil
}

func (m *MockProvider) FetchIncomeStatement(_ context.Context, _ string) (model.Statement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IncomeCalls++
	if m.failNext() {
		return model.Statement{}, errMockFailure
	}
	return m.Income, nil
}

// GenerateBars builds count synthetic daily bars with closes increasing
// linearly from basePrice by one per day.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		c := basePrice + float64(i)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c * 0.999,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}
