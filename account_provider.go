package claims

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// AccountStore is a store we can use to retrieve accounts. The signature
// matches the repository method so an Accounts value can back a provider
// directly.
type AccountStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Account, error)
}

// AccountProvider resolves identities for the authenticator
type AccountProvider struct {
	store     AccountStore
	Validator func(*Account) error
	logger    Logger
}

// NewAccountProvider will create a new AccountProvider
func NewAccountProvider(store AccountStore) *AccountProvider {
	return &AccountProvider{
		store:     store,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	p.logger = l
	return p
}

func (p *AccountProvider) validate(account *Account) error {
	if p.Validator != nil {
		return p.Validator(account)
	}
	return defaultValidator(account)
}

// VerifyIdentity will find the account, compare the password, and return the
// identity. Unknown emails and wrong passwords produce the same error so the
// API does not allow account enumeration.
func (p AccountProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	account, err := p.store.GetByIdentifier(ctx, NormalizeEmail(identifier))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if account == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := p.validate(account); err != nil {
		return nil, err
	}

	return accountIdentity{
		id:    account.ID.String(),
		email: account.Email,
		role:  string(account.Role),
	}, nil
}

// FindIdentityByIdentifier looks an identity up without checking credentials
func (p AccountProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	account, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if account == nil {
		return nil, ErrIdentityNotFound
	}

	if err := p.validate(account); err != nil {
		return nil, err
	}

	return accountIdentity{
		id:    account.ID.String(),
		email: account.Email,
		role:  string(account.Role),
	}, nil
}

type accountIdentity struct {
	id    string
	email string
	role  string
}

func (a accountIdentity) ID() string {
	return a.id
}

func (a accountIdentity) Email() string {
	return a.email
}

func (a accountIdentity) Role() string {
	return a.role
}

var _ Identity = accountIdentity{}
var _ IdentityProvider = (*AccountProvider)(nil)

func defaultValidator(a *Account) error {
	if a.Role.IsValid() {
		return nil
	}
	return errors.New("account has an unknown or invalid role", errors.CategoryAuth).
		WithTextCode(TextCodeInvalidRole).
		WithMetadata(map[string]any{"role": a.Role, "account_id": a.ID.String()})
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups are
// case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
