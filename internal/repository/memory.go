package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

type sequenceKey struct {
	ownerID string
	docType domain.DocumentType
}

type memoryDocument struct {
	doc   domain.StoredDocument
	order int64
}

// MemoryStore keeps everything in process memory. It is used for local runs
// and as the test double for the SQL backends.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[uuid.UUID]*memoryDocument
	sequences map[sequenceKey]int64
	users     map[uuid.UUID]*domain.User
	inserts   int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[uuid.UUID]*memoryDocument),
		sequences: make(map[sequenceKey]int64),
		users:     make(map[uuid.UUID]*domain.User),
	}
}

// Create persists a new document
func (s *MemoryStore) Create(ctx context.Context, doc *domain.StoredDocument) error {
	number, err := checkDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Type.Numbered() {
		key := sequenceKey{ownerID: doc.OwnerID, docType: doc.Type}
		switch {
		case number == 0:
			number = s.sequences[key] + 1
			doc.Identifier = sequence.Format(doc.Type.Prefix(), number)
		case number <= s.sequences[key]:
			return ErrIdentifierConflict
		}
		s.sequences[key] = number
	}

	prepare(doc)
	s.inserts++
	s.docs[doc.ID] = &memoryDocument{doc: copyDocument(doc), order: s.inserts}
	return nil
}

// List returns the owner's documents of a type, newest first
func (s *MemoryStore) List(ctx context.Context, ownerID string, docType domain.DocumentType) ([]*domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*memoryDocument, 0)
	for _, d := range s.docs {
		if d.doc.OwnerID == ownerID && d.doc.Type == docType {
			matches = append(matches, d)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].doc.CreatedAt.Equal(matches[j].doc.CreatedAt) {
			return matches[i].doc.CreatedAt.After(matches[j].doc.CreatedAt)
		}
		return matches[i].order > matches[j].order
	})

	docs := make([]*domain.StoredDocument, 0, len(matches))
	for _, d := range matches {
		c := copyDocument(&d.doc)
		docs = append(docs, &c)
	}
	return docs, nil
}

// Get returns one document
func (s *MemoryStore) Get(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) (*domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok || d.doc.OwnerID != ownerID || d.doc.Type != docType {
		return nil, ErrNotFound
	}
	c := copyDocument(&d.doc)
	return &c, nil
}

// Delete removes one document
func (s *MemoryStore) Delete(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok || d.doc.OwnerID != ownerID || d.doc.Type != docType {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// UpdateStatus changes the status label of one document
func (s *MemoryStore) UpdateStatus(ctx context.Context, ownerID string, docType domain.DocumentType, id uuid.UUID, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok || d.doc.OwnerID != ownerID || d.doc.Type != docType {
		return ErrNotFound
	}
	d.doc.Status = status
	return nil
}

// LastIdentifier returns the owner's high-water identifier
func (s *MemoryStore) LastIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.sequences[sequenceKey{ownerID: ownerID, docType: docType}]
	if !ok {
		return "", nil
	}
	return sequence.Format(docType.Prefix(), n), nil
}

// CreateUser registers a new account
func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Microsecond)

	u := *user
	s.users[u.ID] = &u
	return nil
}

// FindUserByEmail finds an account by email
func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// FindUserByID finds an account by ID
func (s *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func copyDocument(doc *domain.StoredDocument) domain.StoredDocument {
	c := *doc
	if doc.Payload != nil {
		c.Payload = append([]byte(nil), doc.Payload...)
	}
	return c
}
