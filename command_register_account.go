package claims

import (
	"context"
	"time"

	"github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterAccountMessage carries a registration request. Role must be one of
// the two recognized values; anything else is rejected before any write.
type RegisterAccountMessage struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	UseHashid  bool
	OnResponse func(*Account)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// RegisterAccountHandler creates the account inside a transaction
type RegisterAccountHandler struct {
	Repo RepositoryManager
}

var _ command.Commander[RegisterAccountMessage] = (*RegisterAccountHandler)(nil)

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	if _, ok := ParseRole(event.Role); !ok {
		return ErrInvalidRole
	}

	account := &Account{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Email = NormalizeEmail(event.Email)
		account.PasswordHash = hash
		account.Role = Role(event.Role)
		if event.UseHashid {
			if id, err := hashid.NewUUID(account.Email); err == nil {
				account.ID = id
			}
		}

		if account, err = h.Repo.Accounts().RegisterTx(ctx, tx, account); err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(account)
	}

	return nil
}
