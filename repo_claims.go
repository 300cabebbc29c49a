package claims

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Claims is the claim repository. There is no delete path and no version
// column: overlapping reviews are last write wins at the store.
type Claims interface {
	repository.Repository[*Claim]

	Submit(ctx context.Context, claim *Claim) (*Claim, error)
	SubmitTx(ctx context.Context, tx bun.IDB, claim *Claim) (*Claim, error)
	ListAll(ctx context.Context) ([]*Claim, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	Review(ctx context.Context, id uuid.UUID, patch ClaimReview) (*Claim, error)
	ReviewTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ClaimReview) (*Claim, error)
}

type claimsRepo struct {
	repository.Repository[*Claim]
	db *bun.DB
}

var (
	_ Claims                        = (*claimsRepo)(nil)
	_ repository.Repository[*Claim] = (*claimsRepo)(nil)
)

func NewClaimsRepository(db *bun.DB) Claims {
	repo := repository.NewRepository[*Claim](db, repository.ModelHandlers[*Claim]{
		NewRecord: func() *Claim { return &Claim{} },
		GetID: func(c *Claim) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Claim, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &claimsRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *claimsRepo) Submit(ctx context.Context, claim *Claim) (*Claim, error) {
	return r.SubmitTx(ctx, r.db, claim)
}

// SubmitTx stores a new claim with server assigned id, timestamp and Pending
// status. Any caller supplied adjudication fields are discarded.
func (r *claimsRepo) SubmitTx(ctx context.Context, tx bun.IDB, claim *Claim) (*Claim, error) {
	prepareClaimDefaults(claim)
	return r.Repository.CreateTx(ctx, tx, claim)
}

// ListAll returns every claim in submission order. Ownership filtering is a
// UI concern, not an API one; see the service layer notes.
func (r *claimsRepo) ListAll(ctx context.Context) ([]*Claim, error) {
	records := []*Claim{}
	err := r.db.NewSelect().
		Model(&records).
		Order("submission_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *claimsRepo) FindByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return r.findByIDTx(ctx, r.db, id)
}

func (r *claimsRepo) findByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Claim, error) {
	record := &Claim{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *claimsRepo) Review(ctx context.Context, id uuid.UUID, patch ClaimReview) (*Claim, error) {
	return r.ReviewTx(ctx, r.db, id, patch)
}

// ReviewTx looks the claim up and applies the partial patch: only columns
// present in the patch are written, everything else keeps its stored value.
func (r *claimsRepo) ReviewTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ClaimReview) (*Claim, error) {
	record, err := r.findByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsZero() {
		return record, nil
	}

	patch.Apply(record)
	now := time.Now()
	record.UpdatedAt = &now

	cols := append(patch.Columns(), "updated_at")
	_, err = tx.NewUpdate().
		Model(record).
		Column(cols...).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func prepareClaimDefaults(record *Claim) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	// Server owned fields: whatever the caller sent is discarded.
	record.Status = StatusPending
	record.ApprovedAmount = nil
	record.Comments = nil
	record.SubmissionDate = time.Now().UTC()
}
