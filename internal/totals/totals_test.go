package totals

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, unit string, vat bool) domain.LineItem {
	return domain.LineItem{Description: "item", Quantity: d(qty), UnitAmount: d(unit), VATIncluded: vat}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		items       []domain.LineItem
		wantExclVAT string
		wantVAT     string
		wantTotal   string
	}{
		{
			name:        "vat included",
			items:       []domain.LineItem{item("1", "100", true)},
			wantExclVAT: "85.00",
			wantVAT:     "15.00",
			wantTotal:   "100.00",
		},
		{
			name:        "vat excluded",
			items:       []domain.LineItem{item("1", "100", false)},
			wantExclVAT: "100.00",
			wantVAT:     "0.00",
			wantTotal:   "100.00",
		},
		{
			name:        "credit line with vat",
			items:       []domain.LineItem{item("1", "-50", true)},
			wantExclVAT: "-42.50",
			wantVAT:     "-7.50",
			wantTotal:   "-50.00",
		},
		{
			name: "mixed lines with credit",
			items: []domain.LineItem{
				item("2", "100", true),
				item("3", "10", false),
				item("1", "-20", true),
			},
			wantExclVAT: "183.00",
			wantVAT:     "27.00",
			wantTotal:   "210.00",
		},
		{
			name:        "zero quantity contributes nothing",
			items:       []domain.LineItem{item("0", "100", true), item("1", "10", false)},
			wantExclVAT: "10.00",
			wantVAT:     "0.00",
			wantTotal:   "10.00",
		},
		{
			name:        "negative quantity contributes nothing",
			items:       []domain.LineItem{item("-2", "100", true), item("1", "10", false)},
			wantExclVAT: "10.00",
			wantVAT:     "0.00",
			wantTotal:   "10.00",
		},
		{
			name:        "no items",
			items:       nil,
			wantExclVAT: "0.00",
			wantVAT:     "0.00",
			wantTotal:   "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items)
			if Format(got.ExclVAT) != tt.wantExclVAT {
				t.Errorf("ExclVAT = %s, want %s", Format(got.ExclVAT), tt.wantExclVAT)
			}
			if Format(got.VAT) != tt.wantVAT {
				t.Errorf("VAT = %s, want %s", Format(got.VAT), tt.wantVAT)
			}
			if Format(got.Total) != tt.wantTotal {
				t.Errorf("Total = %s, want %s", Format(got.Total), tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalIgnoresVATFlags(t *testing.T) {
	base := []domain.LineItem{
		item("3", "19.99", false),
		item("1.5", "42.10", false),
		item("7", "-3.33", false),
		item("1", "0.01", false),
	}

	want := decimal.Zero
	for _, it := range base {
		want = want.Add(it.LineTotal())
	}

	// every combination of VAT flags must yield the same grand total
	for mask := 0; mask < 1<<len(base); mask++ {
		items := make([]domain.LineItem, len(base))
		copy(items, base)
		for i := range items {
			items[i].VATIncluded = mask&(1<<i) != 0
		}

		got := Compute(items)
		if !got.Total.Equal(want) {
			t.Errorf("mask %b: Total = %s, want %s", mask, got.Total, want)
		}
		if !got.ExclVAT.Add(got.VAT).Equal(got.Total) {
			t.Errorf("mask %b: ExclVAT + VAT = %s, want %s", mask, got.ExclVAT.Add(got.VAT), got.Total)
		}
	}
}

func TestComputeNoFloatingPointDrift(t *testing.T) {
	items := make([]domain.LineItem, 1000)
	for i := range items {
		items[i] = item("1", "0.10", i%2 == 0)
	}

	got := Compute(items)
	if !got.Total.Equal(d("100")) {
		t.Errorf("Total = %s, want exactly 100", got.Total)
	}
	if !got.VAT.Equal(d("7.5")) {
		t.Errorf("VAT = %s, want exactly 7.5", got.VAT)
	}
}

func TestComputeWithCustomRate(t *testing.T) {
	calc := New(d("0.2"))
	got := calc.Compute([]domain.LineItem{item("1", "50", true)})
	if !got.VAT.Equal(d("10")) {
		t.Errorf("VAT = %s, want 10", got.VAT)
	}
	if !got.ExclVAT.Equal(d("40")) {
		t.Errorf("ExclVAT = %s, want 40", got.ExclVAT)
	}
}

func TestComputeLenientItems(t *testing.T) {
	body := `[
		{"description": "Widget", "quantity": "2", "unit_amount": "50", "vat_included": true},
		{"description": "Empty amount", "quantity": 1, "unit_amount": ""},
		{"description": "Garbage", "quantity": 1, "unit_amount": "abc"},
		{"description": "Legacy price", "quantity": 1, "price": 10}
	]`

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	got := Compute(items)
	if Format(got.Total) != "110.00" {
		t.Errorf("Total = %s, want 110.00", Format(got.Total))
	}
	if Format(got.VAT) != "15.00" {
		t.Errorf("VAT = %s, want 15.00", Format(got.VAT))
	}
}

func TestRounded(t *testing.T) {
	got := Rounded(Compute([]domain.LineItem{item("1", "33.33", true)}))
	if got.VAT.String() != "5" {
		// 33.33 × 0.15 = 4.9995 → 5.00
		t.Errorf("VAT = %s, want 5", got.VAT)
	}
	if got.ExclVAT.String() != "28.33" {
		t.Errorf("ExclVAT = %s, want 28.33", got.ExclVAT)
	}
}
