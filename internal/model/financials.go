package model

import "time"

// Financial-statement line items, named as the dashboard displays them.
const (
	ItemTotalAssets      = "Total Assets"
	ItemTotalDebt        = "Total Debt"
	ItemTotalRevenue     = "Total Revenue"
	ItemEBITDA           = "EBITDA"
	ItemBasicEPS         = "Basic EPS"
	ItemOperatingIncome  = "Operating Income"
	ItemOperatingExpense = "Operating Expense"
)

// BalanceSheetItems are the line items selected from the balance sheet.
var BalanceSheetItems = []string{ItemTotalAssets, ItemTotalDebt}

// IncomeStatementItems are the line items selected from the income statement.
var IncomeStatementItems = []string{
	ItemTotalRevenue, ItemEBITDA, ItemBasicEPS, ItemOperatingIncome, ItemOperatingExpense,
}

// SnapshotItems is the fixed row order of a FinancialSnapshot.
var SnapshotItems = []string{
	ItemTotalAssets, ItemTotalDebt,
	ItemTotalRevenue, ItemEBITDA, ItemBasicEPS, ItemOperatingIncome, ItemOperatingExpense,
}

// Statement holds selected line items of one financial statement,
// indexed by reporting period (an ISO date string such as "2023-12-31").
type Statement struct {
	Periods []string
	Items   map[string]map[string]float64 // line item -> period -> value
}

// FinancialRow is one line item across all snapshot periods. Values is
// aligned with FinancialSnapshot.Periods; nil marks a period the
// provider reported no figure for.
type FinancialRow struct {
	Item   string     `json:"item"`
	Values []*float64 `json:"values"`
}

// FinancialSnapshot joins balance-sheet and income-statement line items,
// transposed so reporting periods become columns (newest first).
type FinancialSnapshot struct {
	Symbol    string         `json:"symbol"`
	Periods   []string       `json:"periods"`
	Rows      []FinancialRow `json:"rows"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Empty reports whether there is nothing to render.
func (s FinancialSnapshot) Empty() bool { return len(s.Periods) == 0 }
