package claims_test

import (
	"context"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	claims "github.com/aarogya/claims-api"
)

// MockAccountStore implements claims.AccountStore for testing
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*claims.Account, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.Account), args.Error(1)
}

func testAccount(t *testing.T, email, password string, role claims.Role) *claims.Account {
	t.Helper()

	hash, err := claims.HashPassword(password)
	assert.NoError(t, err)

	return &claims.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
}

func TestAccountProviderVerifyIdentity(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "pat@example.com", "secret123", claims.RolePatient)

	t.Run("verifies matching credentials", func(t *testing.T) {
		store := &MockAccountStore{}
		store.On("GetByIdentifier", ctx, "pat@example.com").Return(account, nil)

		provider := claims.NewAccountProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "pat@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, account.ID.String(), identity.ID())
		assert.Equal(t, "pat@example.com", identity.Email())
		assert.Equal(t, "patient", identity.Role())
	})

	t.Run("normalizes the identifier before lookup", func(t *testing.T) {
		store := &MockAccountStore{}
		store.On("GetByIdentifier", ctx, "pat@example.com").Return(account, nil)

		provider := claims.NewAccountProvider(store)

		_, err := provider.VerifyIdentity(ctx, "  PAT@Example.COM ", "secret123")
		assert.NoError(t, err)

		store.AssertExpectations(t)
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		store := &MockAccountStore{}
		store.On("GetByIdentifier", ctx, "pat@example.com").Return(account, nil)

		provider := claims.NewAccountProvider(store)

		_, err := provider.VerifyIdentity(ctx, "pat@example.com", "not-the-password")
		assert.Equal(t, claims.ErrMismatchedHashAndPassword, err)
	})

	t.Run("unknown email yields the same invalid credentials error", func(t *testing.T) {
		store := &MockAccountStore{}
		store.On("GetByIdentifier", ctx, "nobody@example.com").
			Return(nil, claims.ErrIdentityNotFound)

		provider := claims.NewAccountProvider(store)

		_, err := provider.VerifyIdentity(ctx, "nobody@example.com", "secret123")
		assert.Equal(t, claims.ErrMismatchedHashAndPassword, err)
	})

	t.Run("rejects accounts with an unrecognized role", func(t *testing.T) {
		broken := testAccount(t, "odd@example.com", "secret123", claims.Role("superuser"))

		store := &MockAccountStore{}
		store.On("GetByIdentifier", ctx, "odd@example.com").Return(broken, nil)

		provider := claims.NewAccountProvider(store)

		_, err := provider.VerifyIdentity(ctx, "odd@example.com", "secret123")
		assert.Error(t, err)
	})
}

func TestAccountProviderFindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()
	account := testAccount(t, "ins@example.com", "secret123", claims.RoleInsurer)

	store := &MockAccountStore{}
	store.On("GetByIdentifier", ctx, "ins@example.com").Return(account, nil)

	provider := claims.NewAccountProvider(store)

	identity, err := provider.FindIdentityByIdentifier(ctx, "ins@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "insurer", identity.Role())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", claims.NormalizeEmail("  User@Example.Com "))
	assert.Equal(t, "user@example.com", claims.NormalizeEmail("user@example.com"))
	assert.Equal(t, "", claims.NormalizeEmail("   "))
}
