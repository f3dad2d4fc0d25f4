// Package pdf renders invoices and quotes as printable PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// CurrencySymbol prefixes every rendered amount
const CurrencySymbol = "R"

var printer = message.NewPrinter(language.English)

// Money formats an amount as R1,234.56, rounding to cents
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	fixed := d.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + CurrencySymbol + fixed
	}
	return sign + CurrencySymbol + printer.Sprintf("%d", n) + "." + cents
}

// sheet is the common layout of invoices and quotes
type sheet struct {
	title       string
	number      string
	status      domain.Status
	clientName  string
	clientEmail string
	dates       [][2]string
	items       []domain.LineItem
	totals      domain.DocumentTotals
	description string
}

// RenderInvoice writes an invoice PDF to w
func RenderInvoice(w io.Writer, inv *domain.Invoice) error {
	dates := [][2]string{{"Date", inv.CreatedAt.Format(time.DateOnly)}}
	if inv.DueDate != nil {
		dates = append(dates, [2]string{"Due", inv.DueDate.Format(time.DateOnly)})
	}

	return render(w, sheet{
		title:       "INVOICE",
		number:      inv.Number,
		status:      inv.Status,
		clientName:  inv.ClientName,
		clientEmail: inv.ClientEmail,
		dates:       dates,
		items:       inv.Items,
		totals:      inv.Totals,
		description: inv.Description,
	})
}

// RenderQuote writes a quote PDF to w
func RenderQuote(w io.Writer, q *domain.Quote) error {
	return render(w, sheet{
		title:       "QUOTATION",
		number:      q.Number,
		status:      q.Status,
		clientName:  q.ClientName,
		clientEmail: q.ClientEmail,
		dates: [][2]string{
			{"Date", q.CreatedAt.Format(time.DateOnly)},
			{"Valid until", q.ValidUntil.Format(time.DateOnly)},
		},
		items:       q.Items,
		totals:      q.Totals,
		description: q.Description,
	})
}

func render(w io.Writer, s sheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(100, 10, s.title, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(80, 10, tr(s.number), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, d := range s.dates {
		pdf.CellFormat(180, 6, fmt.Sprintf("%s: %s", d[0], d[1]), "", 1, "R", false, 0, "")
	}
	if s.status != "" {
		pdf.CellFormat(180, 6, "Status: "+string(s.status), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(180, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(180, 6, tr(s.clientName), "", 1, "L", false, 0, "")
	if s.clientEmail != "" {
		pdf.CellFormat(180, 6, tr(s.clientEmail), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{85, 20, 30, 15, 30}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Description", "Qty", "Unit", "VAT", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range s.items {
		vat := ""
		if item.VATIncluded {
			vat = "incl"
		}
		pdf.CellFormat(widths[0], 7, tr(item.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, item.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, Money(item.UnitAmount), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, vat, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, Money(item.LineTotal()), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	rows := [][2]string{
		{"Subtotal (excl. VAT)", Money(s.totals.ExclVAT)},
		{"VAT", Money(s.totals.VAT)},
		{"Total", Money(s.totals.Total)},
	}
	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(150, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, row[1], "", 1, "R", false, 0, "")
	}

	if s.description != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(180, 5, tr(s.description), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render %s: %w", strings.ToLower(s.title), err)
	}
	return nil
}
