package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
)

// Ensure SQLStore implements Store
var _ Store = (*SQLStore)(nil)

// SQLStore implements Store on PostgreSQL or SQLite. Queries are written with
// ? placeholders and rebound for the driver.
type SQLStore struct {
	db *sqlx.DB
}

// documentRow is the documents table layout
type documentRow struct {
	ID         string `db:"id"`
	OwnerID    string `db:"owner_id"`
	DocType    string `db:"doc_type"`
	Identifier string `db:"identifier"`
	Status     string `db:"status"`
	Payload    []byte `db:"payload"`
	CreatedAt  int64  `db:"created_at"`
}

func (r *documentRow) toDomain() (*domain.StoredDocument, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", r.ID, err)
	}
	return &domain.StoredDocument{
		ID:         id,
		OwnerID:    r.OwnerID,
		Type:       domain.DocumentType(r.DocType),
		Identifier: r.Identifier,
		Status:     domain.Status(r.Status),
		Payload:    r.Payload,
		CreatedAt:  time.UnixMicro(r.CreatedAt).UTC(),
	}, nil
}

// OpenPostgres connects to PostgreSQL and applies the schema
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, postgresPayloadType)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file and applies the schema
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; serialize through a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, sqlitePayloadType)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create persists a new document. The identifier sequence and the document
// row are written in one transaction; the sequence row lock serializes
// concurrent creates for the same owner.
func (s *SQLStore) Create(ctx context.Context, doc *domain.StoredDocument) error {
	number, err := checkDocument(doc)
	if err != nil {
		return err
	}

	prepare(doc)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	identifier := doc.Identifier
	if doc.Type.Numbered() {
		if number == 0 {
			last, err := s.allocate(ctx, tx, doc.OwnerID, doc.Type)
			if err != nil {
				return err
			}
			identifier = sequence.Format(doc.Type.Prefix(), last)
		} else if err := s.advance(ctx, tx, doc.OwnerID, doc.Type, number); err != nil {
			return err
		}
	}

	query := s.db.Rebind(`
		INSERT INTO documents (id, owner_id, doc_type, identifier, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err = tx.ExecContext(ctx, query,
		doc.ID.String(),
		doc.OwnerID,
		string(doc.Type),
		identifier,
		string(doc.Status),
		string(doc.Payload),
		doc.CreatedAt.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIdentifierConflict
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	doc.Identifier = identifier
	return nil
}

// allocate takes the owner's next sequence number
func (s *SQLStore) allocate(ctx context.Context, tx *sqlx.Tx, ownerID string, docType domain.DocumentType) (int64, error) {
	query := s.db.Rebind(`
		INSERT INTO document_sequences (owner_id, doc_type, last_number)
		VALUES (?, ?, 1)
		ON CONFLICT (owner_id, doc_type) DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`)

	var last int64
	if err := tx.QueryRowxContext(ctx, query, ownerID, string(docType)).Scan(&last); err != nil {
		return 0, fmt.Errorf("failed to allocate document number: %w", err)
	}
	return last, nil
}

// advance moves the owner's sequence up to number. No row comes back when
// number is not above the current mark.
func (s *SQLStore) advance(ctx context.Context, tx *sqlx.Tx, ownerID string, docType domain.DocumentType, number int64) error {
	query := s.db.Rebind(`
		INSERT INTO document_sequences (owner_id, doc_type, last_number)
		VALUES (?, ?, ?)
		ON CONFLICT (owner_id, doc_type) DO UPDATE SET last_number = excluded.last_number
		WHERE document_sequences.last_number < excluded.last_number
		RETURNING last_number
	`)

	var last int64
	err := tx.QueryRowxContext(ctx, query, ownerID, string(docType), number).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrIdentifierConflict
	}
	if err != nil {
		return fmt.Errorf("failed to advance document sequence: %w", err)
	}
	return nil
}

// List returns the owner's documents of a type, newest first
func (s *SQLStore) List(ctx context.Context, ownerID string, docType domain.DocumentType) ([]*domain.StoredDocument, error) {
	query := s.db.Rebind(`
		SELECT id, owner_id, doc_type, identifier, status, payload, created_at
		FROM documents
		WHERE owner_id = ? AND doc_type = ?
		ORDER BY created_at DESC, identifier DESC
	`)

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, ownerID, string(docType)); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*domain.StoredDocument, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Get finds a document by ID within the owner's scope
func (s *SQLStore) Get(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) (*domain.StoredDocument, error) {
	query := s.db.Rebind(`
		SELECT id, owner_id, doc_type, identifier, status, payload, created_at
		FROM documents
		WHERE id = ? AND owner_id = ? AND doc_type = ?
	`)

	var row documentRow
	err := s.db.GetContext(ctx, &row, query, id.String(), ownerID, string(docType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return row.toDomain()
}

// Delete deletes a document by ID within the owner's scope
func (s *SQLStore) Delete(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) error {
	query := s.db.Rebind(`DELETE FROM documents WHERE id = ? AND owner_id = ? AND doc_type = ?`)

	result, err := s.db.ExecContext(ctx, query, id.String(), ownerID, string(docType))
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatus changes the status of a document within the owner's scope
func (s *SQLStore) UpdateStatus(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID, status domain.Status) error {
	query := s.db.Rebind(`UPDATE documents SET status = ? WHERE id = ? AND owner_id = ? AND doc_type = ?`)

	result, err := s.db.ExecContext(ctx, query, string(status), id.String(), ownerID, string(docType))
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// LastIdentifier returns the owner's high-water identifier for a document type
func (s *SQLStore) LastIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (string, error) {
	query := s.db.Rebind(`SELECT last_number FROM document_sequences WHERE owner_id = ? AND doc_type = ?`)

	var last int64
	err := s.db.GetContext(ctx, &last, query, ownerID, string(docType))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document sequence: %w", err)
	}

	return sequence.Format(docType.Prefix(), last), nil
}

// isUniqueViolation reports whether err is a unique constraint failure on either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
