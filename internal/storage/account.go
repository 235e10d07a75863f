package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"accounts-backend/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

const uniqueViolation = "23505"

// CreateAccount inserts the account and fills in ID and CreatedAt.
// The users_email_key constraint is the authority on email uniqueness; its
// violation is reported as ErrEmailTaken.
func (s *Storage) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, org_id, name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		account.ID,
		account.OrgID,
		account.Name,
		account.Email,
		account.PasswordHash,
	).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, org_id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return s.getAccount(ctx, query, email)
}

func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, org_id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return s.getAccount(ctx, query, id)
}

func (s *Storage) getAccount(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	if err := s.db.GetContext(ctx, &account, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
