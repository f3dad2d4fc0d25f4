package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies the kind of record kept in the document store
type DocumentType string

const (
	DocumentTypeClient  DocumentType = "client"
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeQuote   DocumentType = "quote"
	DocumentTypeExpense DocumentType = "expense"
)

// Prefix returns the identifier prefix for numbered document types
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeInvoice:
		return "INV"
	case DocumentTypeQuote:
		return "Q"
	default:
		return ""
	}
}

// Numbered reports whether documents of this type carry a sequence identifier
func (t DocumentType) Numbered() bool {
	return t.Prefix() != ""
}

// Valid reports whether t is one of the known document types
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeClient, DocumentTypeInvoice, DocumentTypeQuote, DocumentTypeExpense:
		return true
	}
	return false
}

// StoredDocument is the record persisted by the document store. The payload
// holds the type-specific fields as JSON; Identifier is the human-facing
// sequence number (INV00001) and is empty for unnumbered types.
type StoredDocument struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OwnerID    string          `json:"owner_id" db:"owner_id"`
	Type       DocumentType    `json:"type" db:"doc_type"`
	Identifier string          `json:"identifier,omitempty" db:"identifier"`
	Status     Status          `json:"status,omitempty" db:"status"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
