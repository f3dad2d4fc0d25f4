package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// chartMonths is the number of months in the sales/expenses series
const chartMonths = 6

// DashboardService aggregates an owner's documents for the dashboard
type DashboardService struct {
	invoices *InvoiceService
	quotes   *QuoteService
	clients  *ClientService
	expenses *ExpenseService
	now      func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoices *InvoiceService, quotes *QuoteService, clients *ClientService, expenses *ExpenseService) *DashboardService {
	return &DashboardService{
		invoices: invoices,
		quotes:   quotes,
		clients:  clients,
		expenses: expenses,
		now:      time.Now,
	}
}

// Summary computes the dashboard figures for the current month
func (s *DashboardService) Summary(ctx context.Context, ownerID string) (*domain.DashboardSummary, error) {
	invoices, err := s.invoices.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	thisMonth := monthStart(now)

	// oldest first
	series := make([]domain.MonthlyAmounts, chartMonths)
	for i := range series {
		m := thisMonth.AddDate(0, i-(chartMonths-1), 0)
		series[i] = domain.MonthlyAmounts{
			Month:    m.Format("Jan"),
			Year:     m.Year(),
			Sales:    decimal.Zero,
			Expenses: decimal.Zero,
		}
	}
	seriesIndex := func(t time.Time) int {
		start := monthStart(t.UTC())
		months := (thisMonth.Year()-start.Year())*12 + int(thisMonth.Month()-start.Month())
		if months < 0 || months >= chartMonths {
			return -1
		}
		return chartMonths - 1 - months
	}

	summary := &domain.DashboardSummary{
		TotalSalesThisMonth:    decimal.Zero,
		TotalExpensesThisMonth: decimal.Zero,
		PendingPayments:        decimal.Zero,
		InvoiceCount:           len(invoices),
		QuoteCount:             len(quotes),
		ClientCount:            len(clients),
		ExpenseCount:           len(expenses),
		LastSixMonths:          series,
	}

	for _, inv := range invoices {
		if inv.Status != domain.StatusPaid {
			summary.PendingPayments = summary.PendingPayments.Add(inv.Total)
		}
		if i := seriesIndex(inv.CreatedAt); i >= 0 {
			series[i].Sales = series[i].Sales.Add(inv.Total)
		}
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, exp := range expenses {
		byCategory[exp.Category] = byCategory[exp.Category].Add(exp.Amount)
		if i := seriesIndex(exp.Date); i >= 0 {
			series[i].Expenses = series[i].Expenses.Add(exp.Amount)
		}
	}

	summary.TotalSalesThisMonth = series[chartMonths-1].Sales
	summary.TotalExpensesThisMonth = series[chartMonths-1].Expenses
	summary.ProfitLoss = summary.TotalSalesThisMonth.Sub(summary.TotalExpensesThisMonth)

	summary.ExpensesByCategory = make([]domain.CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		summary.ExpensesByCategory = append(summary.ExpensesByCategory, domain.CategoryAmount{
			Category: category,
			Amount:   amount,
		})
	}
	sort.Slice(summary.ExpensesByCategory, func(i, j int) bool {
		a, b := summary.ExpensesByCategory[i], summary.ExpensesByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	return summary, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
