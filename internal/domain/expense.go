package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a purchase recorded against the business
type Expense struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Vendor        string          `json:"vendor"`
	InvoiceNumber string          `json:"invoice_number"` // supplier's reference
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"` // quantity × unit amount
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
	VATIncluded   bool            `json:"vat_included"`
	VAT           decimal.Decimal `json:"vat"`
	ExclVAT       decimal.Decimal `json:"excl_vat"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseCreateRequest represents a request to record an expense. Amount is
// the unit amount; the stored amount is quantity × amount.
type ExpenseCreateRequest struct {
	Vendor        string           `json:"vendor" validate:"required"`
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	Description   string           `json:"description,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Category      string           `json:"category" validate:"required"`
	Date          string           `json:"date" validate:"required"`
	VATIncluded   bool             `json:"vat_included"`
}

// ExpenseCategories is the fixed list offered by the expense form
var ExpenseCategories = []string{
	"Office Supplies",
	"Travel",
	"Meals & Entertainment",
	"Software & Tools",
	"Marketing",
	"Equipment",
	"Utilities",
	"Professional Services",
	"Other",
}

// ExpenseCategoryListResponse represents the response for listing expense categories
type ExpenseCategoryListResponse struct {
	Categories []string `json:"categories"`
}
