package provider

import (
	"context"

	"marketdash/internal/model"
)

// Provider defines the interface for fetching market data. Every failure
// mode (network, bad status, malformed body, missing field) surfaces as a
// plain error; the retry layer treats them all the same way.
type Provider interface {
	FetchDailyHistory(ctx context.Context, symbol string) ([]model.Bar, error)
	FetchSummary(ctx context.Context, symbol string) (model.SummaryInfo, error)
	FetchBalanceSheet(ctx context.Context, symbol string) (model.Statement, error)
	FetchIncomeStatement(ctx context.Context, symbol string) (model.Statement, error)
	Name() string
}
