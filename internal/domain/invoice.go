package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice represents a numbered sales invoice
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"invoice_number"`
	OwnerID     string          `json:"owner_id"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Items       []LineItem      `json:"items"`
	Totals      DocumentTotals  `json:"totals"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	DueDate     *time.Time      `json:"due_date"`
	Description string          `json:"description"`
}

// InvoiceCreateRequest represents a request to create an invoice
type InvoiceCreateRequest struct {
	ClientName  string           `json:"client_name" validate:"required"`
	ClientEmail string           `json:"client_email,omitempty"`
	Items       []LineItem       `json:"items,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"` // used only when no items are given
	Status      Status           `json:"status,omitempty"`
	DueDate     string           `json:"due_date,omitempty"`
	Description string           `json:"description,omitempty"`
}

// InvoiceCreateResponse wraps a created invoice. IdentifierFallback is set
// when the number was assigned without a successful sequence lookup.
type InvoiceCreateResponse struct {
	*Invoice
	IdentifierFallback bool `json:"identifier_fallback"`
}

// Quote represents a numbered quotation
type Quote struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"quote_number"`
	OwnerID     string          `json:"owner_id"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Items       []LineItem      `json:"items"`
	Totals      DocumentTotals  `json:"totals"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ValidUntil  time.Time       `json:"valid_until"`
	Description string          `json:"description"`
}

// QuoteCreateRequest represents a request to create a quote
type QuoteCreateRequest struct {
	ClientName  string           `json:"client_name" validate:"required"`
	ClientEmail string           `json:"client_email,omitempty"`
	Items       []LineItem       `json:"items,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Status      Status           `json:"status,omitempty"`
	ValidUntil  string           `json:"valid_until,omitempty"` // defaults to 30 days after creation
	Description string           `json:"description,omitempty"`
}

// QuoteCreateResponse wraps a created quote
type QuoteCreateResponse struct {
	*Quote
	IdentifierFallback bool `json:"identifier_fallback"`
}

// NextIdentifierResponse represents the next identifier that a create would receive
type NextIdentifierResponse struct {
	Identifier string `json:"identifier"`
	Fallback   bool   `json:"fallback"`
}
