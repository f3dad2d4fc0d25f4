package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/domain"
)

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	Company      string `db:"company"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

func (r *userRow) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", r.ID, err)
	}
	return &domain.User{
		ID:           id,
		Email:        r.Email,
		Name:         r.Name,
		Company:      r.Company,
		PasswordHash: r.PasswordHash,
		CreatedAt:    time.UnixMicro(r.CreatedAt).UTC(),
	}, nil
}

// CreateUser creates a new account
func (s *SQLStore) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Microsecond)

	query := s.db.Rebind(`
		INSERT INTO users (id, email, name, company, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		strings.ToLower(user.Email),
		user.Name,
		user.Company,
		user.PasswordHash,
		user.CreatedAt.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindUserByEmail finds an account by email
func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := s.db.Rebind(`
		SELECT id, email, name, company, password_hash, created_at
		FROM users
		WHERE email = ?
	`)
	return s.findUser(ctx, query, strings.ToLower(email))
}

// FindUserByID finds an account by ID
func (s *SQLStore) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := s.db.Rebind(`
		SELECT id, email, name, company, password_hash, created_at
		FROM users
		WHERE id = ?
	`)
	return s.findUser(ctx, query, id.String())
}

func (s *SQLStore) findUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return row.toDomain()
}
