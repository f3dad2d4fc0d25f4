package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

// invoicePayload is the stored form of an invoice. Totals are not stored;
// they are derived from the items whenever the invoice is read.
type invoicePayload struct {
	ClientName  string            `json:"client_name"`
	ClientEmail string            `json:"client_email"`
	Items       []domain.LineItem `json:"items"`
	Total       decimal.Decimal   `json:"total"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Description string            `json:"description"`
}

// InvoiceService handles invoice-related business logic
type InvoiceService struct {
	store     repository.DocumentStore
	generator *sequence.Generator
	calc      *totals.Calculator
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(store repository.DocumentStore, calc *totals.Calculator) *InvoiceService {
	return &InvoiceService{
		store:     store,
		generator: sequence.NewGenerator(store),
		calc:      calc,
	}
}

// Create validates, numbers and persists a new invoice
func (s *InvoiceService) Create(ctx context.Context, ownerID string, req *domain.InvoiceCreateRequest) (*domain.InvoiceCreateResponse, error) {
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return nil, required("client_name")
	}

	if err := checkItems(req.Items); err != nil {
		return nil, err
	}

	items, sums, err := lineItemTotals(s.calc, req.Items, req.Total)
	if err != nil {
		return nil, err
	}

	status, err := initialStatus(domain.DocumentTypeInvoice, req.Status)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if strings.TrimSpace(req.DueDate) != "" {
		d, err := parseDate("due_date", req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}

	payload, err := encodePayload(invoicePayload{
		ClientName:  clientName,
		ClientEmail: strings.TrimSpace(req.ClientEmail),
		Items:       items,
		Total:       sums.Total,
		DueDate:     dueDate,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	doc := &domain.StoredDocument{
		OwnerID: ownerID,
		Type:    domain.DocumentTypeInvoice,
		Status:  status,
		Payload: payload,
	}

	next, err := createNumbered(ctx, s.store, s.generator, doc)
	if err != nil {
		return nil, err
	}

	invoice, err := s.decode(doc)
	if err != nil {
		return nil, err
	}

	return &domain.InvoiceCreateResponse{
		Invoice:            invoice,
		IdentifierFallback: next.Fallback,
	}, nil
}

// List returns the owner's invoices, newest first
func (s *InvoiceService) List(ctx context.Context, ownerID string) ([]*domain.Invoice, error) {
	docs, err := s.store.List(ctx, ownerID, domain.DocumentTypeInvoice)
	if err != nil {
		return nil, storageError("list invoices", err)
	}

	invoices := make([]*domain.Invoice, 0, len(docs))
	for _, doc := range docs {
		invoice, err := s.decode(doc)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	return invoices, nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Invoice, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeInvoice, id)
	if err != nil {
		return nil, storageError("get invoice", err)
	}
	return s.decode(doc)
}

// Delete removes an invoice. Its number is not issued again.
func (s *InvoiceService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, domain.DocumentTypeInvoice, id); err != nil {
		return storageError("delete invoice", err)
	}
	return nil
}

// UpdateStatus moves an invoice along draft → sent → paid
func (s *InvoiceService) UpdateStatus(ctx context.Context, ownerID string, id uuid.UUID, status domain.Status) (*domain.Invoice, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeInvoice, id)
	if err != nil {
		return nil, storageError("get invoice", err)
	}

	if err := changeStatus(ctx, s.store, ownerID, domain.DocumentTypeInvoice, doc, status); err != nil {
		return nil, err
	}

	return s.decode(doc)
}

// NextNumber returns the number the owner's next invoice would receive
func (s *InvoiceService) NextNumber(ctx context.Context, ownerID string) (*domain.NextIdentifierResponse, error) {
	next, err := s.generator.NextIdentifier(ctx, ownerID, domain.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}
	return &domain.NextIdentifierResponse{
		Identifier: next.Identifier,
		Fallback:   next.Fallback,
	}, nil
}

func (s *InvoiceService) decode(doc *domain.StoredDocument) (*domain.Invoice, error) {
	var p invoicePayload
	if err := decodePayload(doc, &p); err != nil {
		return nil, err
	}

	total := p.Total
	items, sums, _ := lineItemTotals(s.calc, p.Items, &total)

	return &domain.Invoice{
		ID:          doc.ID,
		Number:      doc.Identifier,
		OwnerID:     doc.OwnerID,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Items:       items,
		Totals:      sums,
		Total:       sums.Total,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		DueDate:     p.DueDate,
		Description: p.Description,
	}, nil
}
