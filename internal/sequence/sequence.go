// Package sequence derives human-readable document identifiers such as
// INV00001 and Q00001 from an owner's highest issued identifier.
package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

// Width is the number of zero-padded digits after the prefix
const Width = 5

// Format renders prefix + n zero-padded to Width digits
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}

// Parse extracts the numeric part of an identifier with the given prefix
func Parse(prefix, identifier string) (int64, bool) {
	if !strings.HasPrefix(identifier, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(identifier, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Next returns the identifier following last. An empty or unparseable last
// identifier starts the sequence at 1.
func Next(prefix, last string) string {
	n, ok := Parse(prefix, last)
	if !ok {
		return Format(prefix, 1)
	}
	return Format(prefix, n+1)
}

// First returns the first identifier of a sequence
func First(prefix string) string {
	return Format(prefix, 1)
}

// Source looks up the highest identifier issued to an owner for a document type
type Source interface {
	LastIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (string, error)
}

// Result is a proposed identifier. Fallback is true when the lookup failed
// and the identifier is the sequence's first value, which may already be taken.
type Result struct {
	Identifier string
	Fallback   bool
}

// Generator proposes the next identifier for an owner scope
type Generator struct {
	source Source
}

// NewGenerator creates a new identifier generator
func NewGenerator(source Source) *Generator {
	return &Generator{source: source}
}

// NextIdentifier returns the identifier the next created document would get.
// It does not reserve anything: repeated calls without an intervening create
// return the same value.
func (g *Generator) NextIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (Result, error) {
	prefix := docType.Prefix()
	if prefix == "" {
		return Result{}, fmt.Errorf("document type %q is not numbered", docType)
	}

	last, err := g.source.LastIdentifier(ctx, ownerID, docType)
	if err != nil {
		slog.WarnContext(ctx, "identifier lookup failed, using fallback",
			"owner_id", ownerID,
			"doc_type", docType,
			"error", err,
		)
		return Result{Identifier: First(prefix), Fallback: true}, nil
	}

	return Result{Identifier: Next(prefix, last)}, nil
}
