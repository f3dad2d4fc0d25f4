package domain

import "github.com/shopspring/decimal"

// MonthlyAmounts is one bar of the sales/expenses chart
type MonthlyAmounts struct {
	Month    string          `json:"month"` // short month name, e.g. "Jan"
	Year     int             `json:"year"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategoryAmount is one slice of the expense category chart
type CategoryAmount struct {
	Category string          `json:"name"`
	Amount   decimal.Decimal `json:"value"`
}

// DashboardSummary aggregates an owner's documents for the dashboard
type DashboardSummary struct {
	TotalSalesThisMonth    decimal.Decimal  `json:"total_sales_this_month"`
	TotalExpensesThisMonth decimal.Decimal  `json:"total_expenses_this_month"`
	ProfitLoss             decimal.Decimal  `json:"profit_loss"`
	PendingPayments        decimal.Decimal  `json:"pending_payments"`
	InvoiceCount           int              `json:"invoice_count"`
	QuoteCount             int              `json:"quote_count"`
	ClientCount            int              `json:"client_count"`
	ExpenseCount           int              `json:"expense_count"`
	LastSixMonths          []MonthlyAmounts `json:"last_six_months"`
	ExpensesByCategory     []CategoryAmount `json:"expenses_by_category"`
}
