package domain

import "github.com/shopspring/decimal"

// DefaultVATRate is the value-added tax rate embedded in VAT-inclusive amounts
var DefaultVATRate = decimal.RequireFromString("0.15")

// LineItem is one priced row of an invoice, quote or expense
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unit_amount"`
	VATIncluded bool            `json:"vat_included"`
}

// LineTotal returns quantity × unit amount. A negative quantity counts as zero.
func (i LineItem) LineTotal() decimal.Decimal {
	if i.Quantity.IsNegative() {
		return decimal.Zero
	}
	return i.Quantity.Mul(i.UnitAmount)
}

// DocumentTotals holds the derived sums of a set of line items
type DocumentTotals struct {
	ExclVAT decimal.Decimal `json:"excl_vat"`
	VAT     decimal.Decimal `json:"vat"`
	Total   decimal.Decimal `json:"total"`
}

// TotalsRequest is the body of a totals preview request
type TotalsRequest struct {
	Items []LineItem `json:"items"`
}
