package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

type expensePayload struct {
	Vendor        string          `json:"vendor"`
	InvoiceNumber string          `json:"invoice_number"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
	VATIncluded   bool            `json:"vat_included"`
}

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	store repository.DocumentStore
	calc  *totals.Calculator
}

// NewExpenseService creates a new expense service
func NewExpenseService(store repository.DocumentStore, calc *totals.Calculator) *ExpenseService {
	return &ExpenseService{store: store, calc: calc}
}

// Create validates and persists a new expense
func (s *ExpenseService) Create(ctx context.Context, ownerID string, req *domain.ExpenseCreateRequest) (*domain.Expense, error) {
	vendor := strings.TrimSpace(req.Vendor)
	if vendor == "" {
		return nil, required("vendor")
	}
	if req.Amount == nil {
		return nil, required("amount")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, required("category")
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, required("date")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil && req.Quantity.IsPositive() {
		quantity = *req.Quantity
	}

	payload, err := encodePayload(expensePayload{
		Vendor:        vendor,
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Description:   req.Description,
		Quantity:      quantity,
		Amount:        quantity.Mul(*req.Amount),
		Category:      category,
		Date:          date,
		VATIncluded:   req.VATIncluded,
	})
	if err != nil {
		return nil, err
	}

	doc := &domain.StoredDocument{
		OwnerID: ownerID,
		Type:    domain.DocumentTypeExpense,
		Payload: payload,
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, storageError("create expense", err)
	}

	return s.decode(doc)
}

// List returns the owner's expenses, newest first
func (s *ExpenseService) List(ctx context.Context, ownerID string) ([]*domain.Expense, error) {
	docs, err := s.store.List(ctx, ownerID, domain.DocumentTypeExpense)
	if err != nil {
		return nil, storageError("list expenses", err)
	}

	expenses := make([]*domain.Expense, 0, len(docs))
	for _, doc := range docs {
		expense, err := s.decode(doc)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, nil
}

// Get returns one expense
func (s *ExpenseService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Expense, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeExpense, id)
	if err != nil {
		return nil, storageError("get expense", err)
	}
	return s.decode(doc)
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, domain.DocumentTypeExpense, id); err != nil {
		return storageError("delete expense", err)
	}
	return nil
}

// Categories returns the fixed expense category list
func (s *ExpenseService) Categories() []string {
	return append([]string(nil), domain.ExpenseCategories...)
}

func (s *ExpenseService) decode(doc *domain.StoredDocument) (*domain.Expense, error) {
	var p expensePayload
	if err := decodePayload(doc, &p); err != nil {
		return nil, err
	}

	exclVAT, vat := s.calc.SplitAmount(p.Amount, p.VATIncluded)

	return &domain.Expense{
		ID:            doc.ID,
		OwnerID:       doc.OwnerID,
		Vendor:        p.Vendor,
		InvoiceNumber: p.InvoiceNumber,
		Description:   p.Description,
		Quantity:      p.Quantity,
		Amount:        p.Amount,
		Category:      p.Category,
		Date:          p.Date,
		VATIncluded:   p.VATIncluded,
		VAT:           vat,
		ExclVAT:       exclVAT,
		CreatedAt:     doc.CreatedAt,
	}, nil
}
