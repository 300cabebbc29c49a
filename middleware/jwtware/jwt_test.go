package jwtware_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aarogya/claims-api/middleware/jwtware"
)

type stubClaims struct {
	uid   string
	email string
	role  string
}

func (s stubClaims) Subject() string { return s.uid }
func (s stubClaims) UserID() string  { return s.uid }
func (s stubClaims) Email() string   { return s.email }
func (s stubClaims) Role() string    { return s.role }

func (s stubClaims) HasRole(role string) bool { return s.role == role }
func (s stubClaims) CanReview() bool          { return s.role == "insurer" }

type stubValidator struct {
	claims    jwtware.AuthClaims
	err       error
	lastToken string
}

func (v *stubValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	v.lastToken = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func TestJWTWareHeaderExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "account-1", role: "insurer"}}

	middleware := jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	})

	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	t.Run("valid bearer token", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("Bearer valid.token.here")
		ctx.On("Locals", "session", mock.Anything).Return(nil)

		err := handler(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "valid.token.here", validator.lastToken)
		assert.True(t, ctx.NextCalled)
	})

	t.Run("missing token", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("")

		err := handler(ctx)
		assert.Error(t, err)
		assert.Equal(t, jwtware.ErrJWTMissingOrMalformed.Error(), err.Error())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("Basic dXNlcjpwYXNz")

		err := handler(ctx)
		assert.Error(t, err)
	})
}

func TestJWTWareValidatorRejection(t *testing.T) {
	wantErr := errors.New("token is expired")
	validator := &stubValidator{err: wantErr}

	var handled error
	middleware := jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ErrorHandler: func(ctx router.Context, err error) error {
			handled = err
			return err
		},
	})

	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("Bearer expired.token.here")

	err := handler(ctx)
	assert.Error(t, err)
	assert.Equal(t, wantErr, handled)
	assert.False(t, ctx.NextCalled)
}

func TestJWTWareFilterSkipsValidation(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "account-1", role: "patient"}}

	middleware := jwtware.New(jwtware.Config{
		TokenValidator: validator,
		Filter: func(ctx router.Context) bool {
			return true
		},
	})

	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()

	err := handler(ctx)
	assert.NoError(t, err)
	assert.True(t, ctx.NextCalled)
	assert.Empty(t, validator.lastToken)
}

func TestJWTWareQueryExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "account-1", role: "patient"}}

	middleware := jwtware.New(jwtware.Config{
		TokenValidator: validator,
		TokenLookup:    "query:auth_token",
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	})

	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	ctx := router.NewMockContext()
	ctx.On("Query", "auth_token", "").Return("query.token.here")
	ctx.On("Locals", "session", mock.Anything).Return(nil)

	err := handler(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "query.token.here", validator.lastToken)
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		cfg := jwtware.GetDefaultConfig(jwtware.Config{
			TokenValidator: &stubValidator{},
		})

		assert.Equal(t, "session", cfg.ContextKey)
		assert.Equal(t, "Bearer", cfg.AuthScheme)
		assert.NotNil(t, cfg.SuccessHandler)
		assert.NotNil(t, cfg.ErrorHandler)
	})

	t.Run("panics without a validator", func(t *testing.T) {
		assert.Panics(t, func() {
			jwtware.GetDefaultConfig(jwtware.Config{})
		})
	})
}
