// Package auth registers accounts, checks login credentials and issues the
// signed session tokens that prove a successful login.
package auth

import (
	"context"
	"errors"
	"fmt"

	"accounts-backend/internal/logging"
	"accounts-backend/internal/models"
	"accounts-backend/internal/storage"
)

// Directory is the account store. Lookups return storage.ErrAccountNotFound
// when nothing matches; CreateAccount returns storage.ErrEmailTaken when the
// email is already registered.
type Directory interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
}

// Auditor receives a notification for every created account.
type Auditor interface {
	AccountCreated(ctx context.Context, account *models.Account) error
}

type RegistrationInput struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful registration or login.
type Session struct {
	Token   string
	Account *models.Account
}

type Service struct {
	directory Directory
	hasher    PasswordHasher
	issuer    *TokenIssuer
	auditor   Auditor
	logger    logging.Logger

	// dummyHash is compared against when the email is unknown.
	dummyHash string
}

// NewService wires the service. auditor may be nil.
func NewService(directory Directory, hasher PasswordHasher, issuer *TokenIssuer, auditor Auditor, logger logging.Logger) *Service {
	dummyHash, err := hasher.Hash("timing-equalization-password")
	if err != nil {
		logger.Error(context.Background(), "timing hash unavailable", "error", err)
	}
	return &Service{
		directory: directory,
		hasher:    hasher,
		issuer:    issuer,
		auditor:   auditor,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

func (s *Service) Issuer() *TokenIssuer {
	return s.issuer
}

// Register creates an account and returns a session for it.
func (s *Service) Register(ctx context.Context, in RegistrationInput) (*Session, error) {
	if in.OrganizationID == "" || in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.directory.FindAccountByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, storage.ErrAccountNotFound):
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashFailure, err)
	}

	account := &models.Account{
		OrgID:        in.OrganizationID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.directory.CreateAccount(ctx, account); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	s.logger.Info(ctx, "account created",
		"account_id", account.ID,
		"org_id", account.OrgID,
		"email", account.Email,
	)

	if s.auditor != nil {
		if err := s.auditor.AccountCreated(ctx, account); err != nil {
			s.logger.Warn(ctx, "audit publish failed", "account_id", account.ID, "error", err)
		}
	}

	return s.newSession(account)
}

// Authenticate checks email and password. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	account, err := s.directory.FindAccountByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			// Spend the same bcrypt work as for a known account.
			_, _ = s.hasher.Compare(s.dummyHash, in.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	ok, err := s.hasher.Compare(account.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashFailure, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(account)
}

// Account returns the account a verified token belongs to.
func (s *Service) Account(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.directory.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	return account, nil
}

func (s *Service) newSession(account *models.Account) (*Session, error) {
	token, err := s.issuer.Issue(SessionClaim{
		UserName: account.Name,
		ID:       account.ID,
		Email:    account.Email,
	})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Account: account}, nil
}
