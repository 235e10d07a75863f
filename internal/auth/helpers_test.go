package auth

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"accounts-backend/internal/logging"
	"accounts-backend/internal/models"
	"accounts-backend/internal/storage"
)

// memDirectory enforces email uniqueness at insert time like the users table.
type memDirectory struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	seq      int
	creates  int

	findErr   error
	createErr error
	// blindFind makes FindAccountByEmail miss existing rows, which is what
	// two concurrent registrations observe before either inserts.
	blindFind bool
}

func newMemDirectory() *memDirectory {
	return &memDirectory{accounts: map[string]models.Account{}}
}

func (d *memDirectory) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.findErr != nil {
		return nil, d.findErr
	}
	acc, ok := d.accounts[email]
	if !ok || d.blindFind {
		return nil, storage.ErrAccountNotFound
	}
	return &acc, nil
}

func (d *memDirectory) GetAccount(_ context.Context, id string) (*models.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, acc := range d.accounts {
		if acc.ID == id {
			return &acc, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (d *memDirectory) CreateAccount(_ context.Context, account *models.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.createErr != nil {
		return d.createErr
	}
	if _, exists := d.accounts[account.Email]; exists {
		return storage.ErrEmailTaken
	}
	d.seq++
	d.creates++
	account.ID = "u-" + strconv.Itoa(d.seq)
	account.CreatedAt = time.Now()
	d.accounts[account.Email] = *account
	return nil
}

func (d *memDirectory) stored(email string) (models.Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.accounts[email]
	return acc, ok
}

func (d *memDirectory) createCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.creates
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) AccountCreated(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func newTestService(t *testing.T, dir Directory, auditor Auditor) *Service {
	t.Helper()
	return NewService(
		dir,
		NewBcryptHasher(bcrypt.MinCost),
		NewTokenIssuer("test-secret", time.Hour),
		auditor,
		logging.Discard(),
	)
}
