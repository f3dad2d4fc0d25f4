package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/metrics"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

// createNumbered persists doc under the owner's next identifier. The store
// allocates the number inside its write. When the sequence lookup is failing
// the fallback identifier is written explicitly and the result is flagged.
func createNumbered(ctx context.Context, store repository.DocumentStore, generator *sequence.Generator, doc *domain.StoredDocument) (sequence.Result, error) {
	next, err := generator.NextIdentifier(ctx, doc.OwnerID, doc.Type)
	if err != nil {
		return sequence.Result{}, err
	}

	if !next.Fallback {
		doc.Identifier = ""
		if err := store.Create(ctx, doc); err != nil {
			return sequence.Result{}, storageError("create "+string(doc.Type), err)
		}
		return sequence.Result{Identifier: doc.Identifier}, nil
	}

	doc.Identifier = next.Identifier
	err = store.Create(ctx, doc)
	if errors.Is(err, repository.ErrIdentifierConflict) {
		metrics.IdentifierConflicts.WithLabelValues(string(doc.Type)).Inc()
		return sequence.Result{}, fmt.Errorf("fallback %s identifier %s already issued: %w",
			doc.Type, next.Identifier, ErrStorageUnavailable)
	}
	if err != nil {
		return sequence.Result{}, storageError("create "+string(doc.Type), err)
	}

	metrics.IdentifierFallbacks.WithLabelValues(string(doc.Type)).Inc()
	slog.WarnContext(ctx, "document stored under fallback identifier",
		"owner_id", doc.OwnerID,
		"doc_type", doc.Type,
		"identifier", next.Identifier,
	)
	return next, nil
}

// lineItemTotals validates a document's amounts and returns its items,
// totals and grand total. Totals come from the items when any are given;
// otherwise the supplied total is used as a single non-VAT amount.
func lineItemTotals(calc *totals.Calculator, items []domain.LineItem, total *decimal.Decimal) ([]domain.LineItem, domain.DocumentTotals, error) {
	if len(items) == 0 {
		if total == nil {
			return nil, domain.DocumentTotals{}, NewValidationError("items", "items or total is required")
		}
		return []domain.LineItem{}, domain.DocumentTotals{
			ExclVAT: *total,
			VAT:     decimal.Zero,
			Total:   *total,
		}, nil
	}

	for i := range items {
		items[i].Description = strings.TrimSpace(items[i].Description)
	}
	return items, calc.Compute(items), nil
}

// checkItems rejects line items a new document must not carry. Credits are
// written as a negative unit amount, never a negative quantity.
func checkItems(items []domain.LineItem) error {
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return NewValidationError("items", fmt.Sprintf("item %d: quantity must not be negative", i+1))
		}
	}
	return nil
}

// initialStatus validates the requested status of a new document
func initialStatus(docType domain.DocumentType, status domain.Status) (domain.Status, error) {
	if status == "" {
		return domain.StatusDraft, nil
	}
	if !domain.ValidStatus(docType, status) {
		return "", NewValidationError("status", fmt.Sprintf("status %q is not valid for %s", status, docType))
	}
	return status, nil
}

// changeStatus moves a document to a new status if the transition is allowed
func changeStatus(ctx context.Context, store repository.DocumentStore, ownerID string, docType domain.DocumentType, doc *domain.StoredDocument, status domain.Status) error {
	if status == "" {
		return required("status")
	}
	if !domain.ValidStatus(docType, status) {
		return NewValidationError("status", fmt.Sprintf("status %q is not valid for %s", status, docType))
	}
	if !domain.CanTransition(docType, doc.Status, status) {
		return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, docType, doc.Status, status)
	}
	if doc.Status == status {
		return nil
	}

	if err := store.UpdateStatus(ctx, ownerID, docType, doc.ID, status); err != nil {
		return storageError("update "+string(docType)+" status", err)
	}
	doc.Status = status
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewValidationError(field, field+" must be a date (YYYY-MM-DD)")
}

func encodePayload(v any) (json.RawMessage, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return payload, nil
}

func decodePayload(doc *domain.StoredDocument, v any) error {
	if err := json.Unmarshal(doc.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", doc.Type, doc.ID, err)
	}
	return nil
}
