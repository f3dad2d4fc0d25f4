package smartinvoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Error is a non-2xx API response
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("smartinvoice: %s (status %d)", e.Message, e.StatusCode)
}

// Status is the lifecycle state of an invoice or quote
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusPaid     Status = "paid"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// LineItem is one priced row. UnitAmount is VAT-inclusive when VATIncluded is set.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unit_amount"`
	VATIncluded bool            `json:"vat_included"`
}

// Totals are the derived sums of a document
type Totals struct {
	ExclVAT decimal.Decimal `json:"excl_vat"`
	VAT     decimal.Decimal `json:"vat"`
	Total   decimal.Decimal `json:"total"`
}

// Invoice is a numbered sales invoice
type Invoice struct {
	ID                 string          `json:"id"`
	Number             string          `json:"invoice_number"`
	ClientName         string          `json:"client_name"`
	ClientEmail        string          `json:"client_email"`
	Items              []LineItem      `json:"items"`
	Totals             Totals          `json:"totals"`
	Total              decimal.Decimal `json:"total"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	DueDate            *time.Time      `json:"due_date"`
	Description        string          `json:"description"`
	IdentifierFallback bool            `json:"identifier_fallback,omitempty"`
}

// CreateInvoiceRequest creates an invoice. Total is only used without items.
type CreateInvoiceRequest struct {
	ClientName  string           `json:"client_name"`
	ClientEmail string           `json:"client_email,omitempty"`
	Items       []LineItem       `json:"items,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Status      Status           `json:"status,omitempty"`
	DueDate     string           `json:"due_date,omitempty"`
	Description string           `json:"description,omitempty"`
}

// Quote is a numbered quotation
type Quote struct {
	ID                 string          `json:"id"`
	Number             string          `json:"quote_number"`
	ClientName         string          `json:"client_name"`
	ClientEmail        string          `json:"client_email"`
	Items              []LineItem      `json:"items"`
	Totals             Totals          `json:"totals"`
	Total              decimal.Decimal `json:"total"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	ValidUntil         time.Time       `json:"valid_until"`
	Description        string          `json:"description"`
	IdentifierFallback bool            `json:"identifier_fallback,omitempty"`
}

// CreateQuoteRequest creates a quote. ValidUntil defaults to 30 days out.
type CreateQuoteRequest struct {
	ClientName  string           `json:"client_name"`
	ClientEmail string           `json:"client_email,omitempty"`
	Items       []LineItem       `json:"items,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Status      Status           `json:"status,omitempty"`
	ValidUntil  string           `json:"valid_until,omitempty"`
	Description string           `json:"description,omitempty"`
}

// NextIdentifier is the identifier the next create would receive
type NextIdentifier struct {
	Identifier string `json:"identifier"`
	Fallback   bool   `json:"fallback"`
}

// Token is an issued bearer token
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
