// Package totals computes VAT-aware sums over line items.
package totals

import (
	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// Calculator splits VAT-inclusive amounts at a fixed rate
type Calculator struct {
	Rate decimal.Decimal
}

// New creates a calculator for the given VAT rate
func New(rate decimal.Decimal) *Calculator {
	return &Calculator{Rate: rate}
}

// Default returns a calculator at domain.DefaultVATRate
func Default() *Calculator {
	return New(domain.DefaultVATRate)
}

// Compute sums line items into excl-VAT, VAT and grand totals.
// A VAT-inclusive line contributes lineAmount × rate to VAT and the rest to
// excl-VAT; other lines contribute only to excl-VAT. Negative amounts are
// credits and reduce every sum they touch.
func (c *Calculator) Compute(items []domain.LineItem) domain.DocumentTotals {
	exclVAT := decimal.Zero
	vat := decimal.Zero

	for _, item := range items {
		excl, v := c.SplitAmount(item.LineTotal(), item.VATIncluded)
		exclVAT = exclVAT.Add(excl)
		vat = vat.Add(v)
	}

	return domain.DocumentTotals{
		ExclVAT: exclVAT,
		VAT:     vat,
		Total:   exclVAT.Add(vat),
	}
}

// SplitAmount returns the excl-VAT and VAT portions of a single amount
func (c *Calculator) SplitAmount(amount decimal.Decimal, vatIncluded bool) (exclVAT, vat decimal.Decimal) {
	if !vatIncluded {
		return amount, decimal.Zero
	}
	vat = amount.Mul(c.Rate)
	return amount.Sub(vat), vat
}

// Compute sums line items at the default VAT rate
func Compute(items []domain.LineItem) domain.DocumentTotals {
	return Default().Compute(items)
}

// Format renders a monetary value with two decimal places
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Rounded returns the totals rounded to cents for presentation
func Rounded(t domain.DocumentTotals) domain.DocumentTotals {
	return domain.DocumentTotals{
		ExclVAT: t.ExclVAT.Round(2),
		VAT:     t.VAT.Round(2),
		Total:   t.Total.Round(2),
	}
}
