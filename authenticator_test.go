package claims_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	claims "github.com/aarogya/claims-api"
)

// MockIdentityProvider implements claims.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (claims.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(claims.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (claims.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(claims.Identity), args.Error(1)
}

type testAuthConfig struct{}

func (testAuthConfig) GetSigningKey() string    { return "test-signing-key" }
func (testAuthConfig) GetSigningMethod() string { return "HS256" }
func (testAuthConfig) GetContextKey() string    { return "session" }
func (testAuthConfig) GetTokenExpiration() int  { return 1 }
func (testAuthConfig) GetTokenLookup() string   { return "header:Authorization" }
func (testAuthConfig) GetAuthScheme() string    { return "Bearer" }
func (testAuthConfig) GetIssuer() string        { return "test-issuer" }

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a session token for valid credentials", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("account-7")
		identity.On("Role").Return("patient")
		identity.On("Email").Return("pat@example.com")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "pat@example.com", "secret").Return(identity, nil)

		auther := claims.NewAuthenticator(provider, testAuthConfig{})

		token, err := auther.Login(ctx, "pat@example.com", "secret")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		session, err := auther.SessionFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "account-7", session.UserID())
		assert.Equal(t, "patient", session.Role())
		assert.Equal(t, "pat@example.com", session.Email())
		assert.False(t, session.CanReview())

		provider.AssertExpectations(t)
	})

	t.Run("propagates verification failures", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "pat@example.com", "wrong").
			Return(nil, claims.ErrMismatchedHashAndPassword)

		auther := claims.NewAuthenticator(provider, testAuthConfig{})

		_, err := auther.Login(ctx, "pat@example.com", "wrong")
		assert.Error(t, err)
		assert.Equal(t, claims.ErrMismatchedHashAndPassword, err)
	})

	t.Run("treats nil identity as invalid credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "pat@example.com", "secret").Return(nil, nil)

		auther := claims.NewAuthenticator(provider, testAuthConfig{})

		_, err := auther.Login(ctx, "pat@example.com", "secret")
		assert.Equal(t, claims.ErrMismatchedHashAndPassword, err)
	})
}

func TestAutherSessionFromToken(t *testing.T) {
	auther := claims.NewAuthenticator(&MockIdentityProvider{}, testAuthConfig{})

	_, err := auther.SessionFromToken("not-a-token")
	assert.Error(t, err)
	assert.True(t, claims.IsMalformedError(err))
}

func TestAutherIdentityFromSession(t *testing.T) {
	ctx := context.Background()

	identity := &MockIdentity{}
	identity.On("ID").Return("account-7")
	identity.On("Role").Return("insurer")
	identity.On("Email").Return("ins@example.com")

	provider := &MockIdentityProvider{}
	provider.On("VerifyIdentity", ctx, "ins@example.com", "secret").Return(identity, nil)
	provider.On("FindIdentityByIdentifier", ctx, "account-7").Return(identity, nil)

	auther := claims.NewAuthenticator(provider, testAuthConfig{})

	token, err := auther.Login(ctx, "ins@example.com", "secret")
	assert.NoError(t, err)

	session, err := auther.SessionFromToken(token)
	assert.NoError(t, err)

	resolved, err := auther.IdentityFromSession(ctx, session)
	assert.NoError(t, err)
	assert.Equal(t, "account-7", resolved.ID())
	assert.Equal(t, "insurer", resolved.Role())

	provider.AssertExpectations(t)
}
