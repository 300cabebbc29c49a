package claims

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ClaimSubmission holds the caller supplied submission fields. Adjudication
// fields are deliberately absent: they only exist through insurer reviews.
type ClaimSubmission struct {
	Name        string
	Email       string
	ClaimAmount float64
	Description string
	DocumentURL string
}

// ClaimService implements the claim lifecycle. Authentication has already
// happened by the time these methods run; the only role sensitive operation
// is Review.
type ClaimService struct {
	repo   RepositoryManager
	logger Logger
}

func NewClaimService(repo RepositoryManager) *ClaimService {
	return &ClaimService{
		repo:   repo,
		logger: defLogger{},
	}
}

func (s *ClaimService) WithLogger(logger Logger) *ClaimService {
	s.logger = logger
	return s
}

// Submit stores a new claim for any authenticated session. Product intent is
// patient only submission but the API contract has always accepted any role;
// the UI is what scopes who sees the form.
func (s *ClaimService) Submit(ctx context.Context, actor AuthClaims, input ClaimSubmission) (*Claim, error) {
	if actor == nil {
		return nil, ErrTokenMalformed
	}

	record := &Claim{
		Name:        input.Name,
		Email:       input.Email,
		ClaimAmount: input.ClaimAmount,
		Description: input.Description,
	}
	if input.DocumentURL != "" {
		url := input.DocumentURL
		record.DocumentURL = &url
	}

	created, err := s.repo.Claims().Submit(ctx, record)
	if err != nil {
		s.logger.Error("claim submit failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to store claim")
	}

	s.logger.Info("claim submitted", "claim_id", created.ID.String(), "actor", actor.UserID())

	return created, nil
}

// ListClaims returns every claim to any authenticated caller. There is no
// ownership filtering at this layer; patients see their own claims because
// the dashboard filters client side.
func (s *ClaimService) ListClaims(ctx context.Context, actor AuthClaims) ([]*Claim, error) {
	if actor == nil {
		return nil, ErrTokenMalformed
	}

	records, err := s.repo.Claims().ListAll(ctx)
	if err != nil {
		s.logger.Error("claim list failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list claims")
	}

	return records, nil
}

// Review applies a partial adjudication update. This is the one operation
// where role gates behavior: any non insurer session gets ErrReviewForbidden
// before a single persistence call runs. Re-reviews overwrite earlier ones,
// there are no forbidden transitions.
func (s *ClaimService) Review(ctx context.Context, actor AuthClaims, id uuid.UUID, patch ClaimReview) (*Claim, error) {
	if actor == nil {
		return nil, ErrTokenMalformed
	}

	if !actor.CanReview() {
		s.logger.Warn("review rejected for role", "role", actor.Role(), "claim_id", id.String())
		return nil, ErrReviewForbidden
	}

	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	if patch.ApprovedAmount != nil && *patch.ApprovedAmount < 0 {
		return nil, errors.New("approved amount must not be negative", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	updated, err := s.repo.Claims().Review(ctx, id, patch)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		s.logger.Error("claim review failed", "error", err, "claim_id", id.String())
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update claim")
	}

	s.logger.Info("claim reviewed", "claim_id", id.String(), "actor", actor.UserID())

	return updated, nil
}
