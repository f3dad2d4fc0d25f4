package smartinvoice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/api"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	services := api.NewServices(repository.NewMemoryStore(), totals.Default(), "sdk-secret", time.Hour)
	server := httptest.NewServer(api.NewRouter(services, ""))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, WithHTTPClient(server.Client()))
	ctx := context.Background()
	if err := client.Register(ctx, "sdk@example.com", "password123", "SDK"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := client.Login(ctx, "sdk@example.com", "password123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return client
}

func TestClient_InvoiceFlow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	next, err := client.NextInvoiceNumber(ctx)
	if err != nil {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}
	if next.Identifier != "INV00001" {
		t.Errorf("next = %s, want INV00001", next.Identifier)
	}

	invoice, err := client.CreateInvoice(ctx, &CreateInvoiceRequest{
		ClientName: "Acme",
		Items: []LineItem{
			{Description: "Work", Quantity: decimal.NewFromInt(2), UnitAmount: decimal.NewFromInt(50), VATIncluded: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if invoice.Number != "INV00001" || invoice.IdentifierFallback {
		t.Errorf("invoice = %s fallback=%v", invoice.Number, invoice.IdentifierFallback)
	}
	if !invoice.Totals.VAT.Equal(decimal.NewFromInt(15)) || !invoice.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("totals = %+v", invoice.Totals)
	}

	sent, err := client.UpdateInvoiceStatus(ctx, invoice.ID, StatusSent)
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus failed: %v", err)
	}
	if sent.Status != StatusSent {
		t.Errorf("status = %s, want sent", sent.Status)
	}

	_, err = client.UpdateInvoiceStatus(ctx, invoice.ID, StatusAccepted)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a quote-only status, got %v", err)
	}

	invoices, err := client.ListInvoices(ctx)
	if err != nil || len(invoices) != 1 {
		t.Fatalf("ListInvoices = %d, %v", len(invoices), err)
	}

	if err := client.DeleteInvoice(ctx, invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}
	_, err = client.GetInvoice(ctx, invoice.ID)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %v", err)
	}

	next, err = client.NextInvoiceNumber(ctx)
	if err != nil {
		t.Fatalf("NextInvoiceNumber failed: %v", err)
	}
	if next.Identifier != "INV00002" {
		t.Errorf("next after delete = %s, want INV00002", next.Identifier)
	}
}

func TestClient_QuotesAndTotals(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	total := decimal.NewFromInt(500)
	quote, err := client.CreateQuote(ctx, &CreateQuoteRequest{ClientName: "Beta", Total: &total})
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}
	if quote.Number != "Q00001" || !quote.Total.Equal(total) {
		t.Errorf("quote = %s total %s", quote.Number, quote.Total)
	}
	if got := quote.ValidUntil.Sub(quote.CreatedAt); got != 30*24*time.Hour {
		t.Errorf("validity = %v, want 30 days", got)
	}

	quotes, err := client.ListQuotes(ctx)
	if err != nil || len(quotes) != 1 {
		t.Fatalf("ListQuotes = %d, %v", len(quotes), err)
	}

	sums, err := client.Totals(ctx, []LineItem{
		{Quantity: decimal.NewFromInt(1), UnitAmount: decimal.NewFromInt(200)},
		{Quantity: decimal.NewFromInt(1), UnitAmount: decimal.NewFromInt(100), VATIncluded: true},
	})
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if !sums.ExclVAT.Equal(decimal.NewFromInt(285)) || !sums.VAT.Equal(decimal.NewFromInt(15)) {
		t.Errorf("totals = %+v, want excl 285 vat 15", sums)
	}
}

func TestClient_Unauthenticated(t *testing.T) {
	services := api.NewServices(repository.NewMemoryStore(), totals.Default(), "sdk-secret", time.Hour)
	server := httptest.NewServer(api.NewRouter(services, ""))
	defer server.Close()

	_, err := NewClient(server.URL).ListInvoices(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
