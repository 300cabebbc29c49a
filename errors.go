package claims

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed to API clients alongside the HTTP status.
const (
	TextCodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeInvalidRole       = "INVALID_ROLE"
	TextCodeInvalidStatus     = "INVALID_STATUS"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeReviewForbidden   = "REVIEW_FORBIDDEN"
	TextCodeClaimNotFound     = "CLAIM_NOT_FOUND"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
)

// ErrDuplicateIdentity is returned when a registration email is already taken
var ErrDuplicateIdentity = errors.New("an account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity).
	WithCode(errors.CodeConflict)

// ErrMismatchedHashAndPassword covers both unknown email and wrong password,
// so login failures do not leak which accounts exist
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidRole rejects registrations with a role outside {patient, insurer}
var ErrInvalidRole = errors.New("role must be either patient or insurer", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(errors.CodeBadRequest)

// ErrInvalidStatus rejects review payloads with an unknown claim status
var ErrInvalidStatus = errors.New("status must be Pending, Approved or Rejected", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidStatus).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a session token is past its expiry
var ErrTokenExpired = errors.New("session token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures and undecodable tokens
var ErrTokenMalformed = errors.New("session token is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrReviewForbidden is returned when a non insurer session calls Review
var ErrReviewForbidden = errors.New("only insurers may review claims", errors.CategoryAuthz).
	WithTextCode(TextCodeReviewForbidden).
	WithCode(errors.CodeForbidden)

// ErrClaimNotFound is returned for review calls against an unknown claim id
var ErrClaimNotFound = errors.New("claim not found", errors.CategoryNotFound).
	WithTextCode(TextCodeClaimNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrUnableToDecodeSession unable to decode the validated token claims
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
