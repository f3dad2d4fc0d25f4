// Package repository persists documents and users behind one contract with
// in-memory, SQLite and PostgreSQL backends.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
)

var (
	// ErrNotFound is returned when a record does not exist in the owner's scope
	ErrNotFound = errors.New("record not found")

	// ErrIdentifierConflict is returned when a document identifier is not
	// above the owner's high-water mark, i.e. it was already issued
	ErrIdentifierConflict = errors.New("document identifier already issued")

	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
)

// DocumentStore persists documents scoped by owner
type DocumentStore interface {
	// Create persists doc, filling ID and CreatedAt when unset. For numbered
	// types an empty identifier is allocated as the owner's next number in
	// the same write and set on doc. An explicit identifier must be above
	// every identifier previously issued to the owner, otherwise
	// ErrIdentifierConflict is returned.
	Create(ctx context.Context, doc *domain.StoredDocument) error

	// List returns the owner's documents of a type, newest first
	List(ctx context.Context, ownerID string, docType domain.DocumentType) ([]*domain.StoredDocument, error)

	Get(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) (*domain.StoredDocument, error)

	Delete(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) error

	UpdateStatus(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID, status domain.Status) error

	// LastIdentifier returns the highest identifier ever issued to the owner
	// for docType, or "" when none was. Deleting documents does not lower it.
	LastIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (string, error)
}

// UserStore persists accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Store is the full storage contract used by the services
type Store interface {
	DocumentStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the store for the configured driver
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// checkDocument validates doc before it is written. For numbered types it
// returns the number of an explicit identifier, or 0 when the store must
// allocate the next one.
func checkDocument(doc *domain.StoredDocument) (int64, error) {
	if !doc.Type.Valid() {
		return 0, fmt.Errorf("unknown document type %q", doc.Type)
	}
	if !doc.Type.Numbered() || doc.Identifier == "" {
		return 0, nil
	}

	n, ok := sequence.Parse(doc.Type.Prefix(), doc.Identifier)
	if !ok || n < 1 {
		return 0, fmt.Errorf("invalid identifier %q for %s", doc.Identifier, doc.Type)
	}
	return n, nil
}

// prepare fills server-assigned fields
func prepare(doc *domain.StoredDocument) {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Microsecond)
}
