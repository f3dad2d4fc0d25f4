package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R0.00"},
		{"85", "R85.00"},
		{"1234.5", "R1,234.50"},
		{"1234567.891", "R1,234,567.89"},
		{"-42.5", "-R42.50"},
		{"0.005", "R0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Money(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		{Description: "Geyser installation (labour)", Quantity: decimal.NewFromInt(2), UnitAmount: decimal.RequireFromString("450"), VATIncluded: true},
		{Description: "Copper fittings", Quantity: decimal.NewFromInt(1), UnitAmount: decimal.RequireFromString("120.50")},
	}
}

func TestRenderInvoice(t *testing.T) {
	items := sampleItems()
	due := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	inv := &domain.Invoice{
		Number:      "INV00042",
		ClientName:  "Zoë Botha",
		ClientEmail: "zoe@example.com",
		Items:       items,
		Totals:      totals.Compute(items),
		Status:      domain.StatusSent,
		CreatedAt:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
		Description: "Thank you for your business.",
	}

	var buf bytes.Buffer
	if err := RenderInvoice(&buf, inv); err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestRenderQuote(t *testing.T) {
	q := &domain.Quote{
		Number:     "Q00001",
		ClientName: "Smith Construction",
		Status:     domain.StatusDraft,
		CreatedAt:  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := RenderQuote(&buf, q); err != nil {
		t.Fatalf("RenderQuote failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF")
	}
}
