package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/repository"
)

type clientPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
}

// ClientService handles client-related business logic
type ClientService struct {
	store repository.DocumentStore
}

// NewClientService creates a new client service
func NewClientService(store repository.DocumentStore) *ClientService {
	return &ClientService{store: store}
}

// Create validates and persists a new client
func (s *ClientService) Create(ctx context.Context, ownerID string, req *domain.ClientCreateRequest) (*domain.Client, error) {
	p := clientPayload{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Address: strings.TrimSpace(req.Address),
	}

	if p.Name == "" {
		return nil, required("name")
	}
	if p.Email == "" {
		return nil, required("email")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, NewValidationError("email", "email is not a valid address")
	}

	payload, err := encodePayload(p)
	if err != nil {
		return nil, err
	}

	doc := &domain.StoredDocument{
		OwnerID: ownerID,
		Type:    domain.DocumentTypeClient,
		Payload: payload,
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, storageError("create client", err)
	}

	return decodeClient(doc)
}

// List returns the owner's clients, newest first
func (s *ClientService) List(ctx context.Context, ownerID string) ([]*domain.Client, error) {
	docs, err := s.store.List(ctx, ownerID, domain.DocumentTypeClient)
	if err != nil {
		return nil, storageError("list clients", err)
	}

	clients := make([]*domain.Client, 0, len(docs))
	for _, doc := range docs {
		client, err := decodeClient(doc)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Client, error) {
	doc, err := s.store.Get(ctx, ownerID, domain.DocumentTypeClient, id)
	if err != nil {
		return nil, storageError("get client", err)
	}
	return decodeClient(doc)
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ownerID, domain.DocumentTypeClient, id); err != nil {
		return storageError("delete client", err)
	}
	return nil
}

func decodeClient(doc *domain.StoredDocument) (*domain.Client, error) {
	var p clientPayload
	if err := decodePayload(doc, &p); err != nil {
		return nil, err
	}
	return &domain.Client{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Company:   p.Company,
		Address:   p.Address,
		CreatedAt: doc.CreatedAt,
	}, nil
}
