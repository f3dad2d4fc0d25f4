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

// QuoteValidity is how long a quote stays open when no valid_until is given
const QuoteValidity = 30 * 24 * time.Hour

type quotePayload struct {
	ClientName  string            `json:"client_name"`
	ClientEmail string            `json:"client_email"`
	Items       []domain.LineItem `json:"items"`
	Total       decimal.Decimal   `json:"total"`
	ValidUntil  time.Time         `json:"valid_until"`
	Description string            `json:"description"`
}

// QuoteService handles quote-related business logic
type QuoteService struct {
	store     repository.DocumentStore
	generator *sequence.Generator
	calc      *totals.Calculator
	now       func() time.Time
}

// NewQuoteService creates a new quote service
func NewQuoteService(store repository.DocumentStore, calc *totals.Calculator) *QuoteService {
	return &QuoteService{
		store:     store,
		generator: sequence.NewGenerator(store),
		calc:      calc,
		now:       time.Now,
	}
}

// Create validates, numbers and persists a new quote
func (s *QuoteService) Create(ctx context.Context, ownerID string, req *domain.QuoteCreateRequest) (*domain.QuoteCreateResponse, error) {
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

	status, err := initialStatus(domain.DocumentTypeQuote, req.Status)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC().Truncate(time.Microsecond)
	validUntil := createdAt.Add(QuoteValidity)
	if strings.TrimSpace(req.ValidUntil) != "" {
		validUntil, err = parseDate("valid_until", req.ValidUntil)
		if err != nil {
			return nil, err
		}
	}

	payload, err := encodePayload(quotePayload{
		ClientName:  clientName,
		ClientEmail: strings.TrimSpace(req.ClientEmail),
		Items:       items,
		Total:       sums.Total,
		ValidUntil:  validUntil,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	doc := &domain.StoredDocument{
		OwnerID:   ownerID,
		Type:      domain.DocumentTypeQuote,
		Status:    status,
		Payload:   payload,
		CreatedAt: createdAt,
	}

	next, err := createNumbered(ctx, s.store, s.generator, doc)
	if err != nil {
		return nil, err
	}

	quote, err := s.decode(doc)
	if err != nil {
		return nil, err
	}

	return &domain.QuoteCreateResponse{
		Quote:              quote,
		IdentifierFallback: next.Fallback,
	}, nil
}

// List returns the owner's quotes, newest first
func (s *QuoteService) List(ctx context.Context, ownerID string) ([]*domain.Quote, error) {
	docs, err := s.store.List(ctx, ownerID, domain.DocumentTypeQuote)
	if err != nil {
		return nil, storageError("list quotes", err)
	}

	quotes := make([]*domain.Quote, 0, len(docs))
	for _, doc := range docs {
		quote, err := s.decode(doc)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// Get returns one quote
func (s *QuoteService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Quote, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeQuote, id)
	if err != nil {
		return nil, storageError("get quote", err)
	}
	return s.decode(doc)
}

// Delete removes a quote
func (s *QuoteService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, domain.DocumentTypeQuote, id); err != nil {
		return storageError("delete quote", err)
	}
	return nil
}

// UpdateStatus moves a quote along draft → sent → accepted/rejected/expired
func (s *QuoteService) UpdateStatus(ctx context.Context, ownerID string, id uuid.UUID, status domain.Status) (*domain.Quote, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeQuote, id)
	if err != nil {
		return nil, storageError("get quote", err)
	}

	if err := changeStatus(ctx, s.store, ownerID, domain.DocumentTypeQuote, doc, status); err != nil {
		return nil, err
	}

	return s.decode(doc)
}

// NextNumber returns the number the owner's next quote would receive
func (s *QuoteService) NextNumber(ctx context.Context, ownerID string) (*domain.NextIdentifierResponse, error) {
	next, err := s.generator.NextIdentifier(ctx, ownerID, domain.DocumentTypeQuote)
	if err != nil {
		return nil, err
	}
	return &domain.NextIdentifierResponse{
		Identifier: next.Identifier,
		Fallback:   next.Fallback,
	}, nil
}

func (s *QuoteService) decode(doc *domain.StoredDocument) (*domain.Quote, error) {
	var p quotePayload
	if err := decodePayload(doc, &p); err != nil {
		return nil, err
	}

	total := p.Total
	items, sums, _ := lineItemTotals(s.calc, p.Items, &total)

	return &domain.Quote{
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
		ValidUntil:  p.ValidUntil,
		Description: p.Description,
	}, nil
}
