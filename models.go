package claims

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the identity record. It is created once at registration and
// never mutated afterwards; there is no password or role change path.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          Role       `bun:"role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ClaimStatus is the adjudication state of a claim
type ClaimStatus string

const (
	// StatusPending is the state every claim starts in
	StatusPending ClaimStatus = "Pending"
	// StatusApproved is set by an insurer review
	StatusApproved ClaimStatus = "Approved"
	// StatusRejected is set by an insurer review
	StatusRejected ClaimStatus = "Rejected"
)

// IsValid checks the status against the three recognized values
func (s ClaimStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Claim is the central adjudicated record. Submission fields are set once by
// the submitting patient; adjudication fields are writable only through
// insurer reviews. Claims are never deleted.
type Claim struct {
	bun.BaseModel  `bun:"table:claims,alias:clm"`
	ID             uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string      `bun:"name,notnull" json:"name"`
	Email          string      `bun:"email,notnull" json:"email"`
	ClaimAmount    float64     `bun:"claim_amount,notnull" json:"claimAmount"`
	Description    string      `bun:"description,notnull" json:"description"`
	Status         ClaimStatus `bun:"status,notnull,default:'Pending'" json:"status"`
	SubmissionDate time.Time   `bun:"submission_date,notnull" json:"submissionDate"`
	ApprovedAmount *float64    `bun:"approved_amount" json:"approvedAmount,omitempty"`
	Comments       *string     `bun:"comments" json:"comments,omitempty"`
	DocumentURL    *string     `bun:"document_url" json:"documentUrl,omitempty"`
	CreatedAt      *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"-"`
	UpdatedAt      *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"-"`
}

// ClaimReview is the partial update an insurer applies. Only non nil fields
// overwrite stored columns; absent fields leave the stored value untouched.
type ClaimReview struct {
	Status         *ClaimStatus `json:"status,omitempty"`
	ApprovedAmount *float64     `json:"approvedAmount,omitempty"`
	Comments       *string      `json:"comments,omitempty"`
}

// IsZero reports whether the review patch carries no fields at all
func (r ClaimReview) IsZero() bool {
	return r.Status == nil && r.ApprovedAmount == nil && r.Comments == nil
}

// Columns lists the claim columns the patch will touch, in a stable order
func (r ClaimReview) Columns() []string {
	cols := make([]string, 0, 3)
	if r.Status != nil {
		cols = append(cols, "status")
	}
	if r.ApprovedAmount != nil {
		cols = append(cols, "approved_amount")
	}
	if r.Comments != nil {
		cols = append(cols, "comments")
	}
	return cols
}

// Apply overwrites the claim's adjudication fields with the patch values.
// Later reviews win wholesale; the status enum check is the only transition
// rule, so a decided claim can be reviewed again.
func (r ClaimReview) Apply(c *Claim) {
	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.ApprovedAmount != nil {
		c.ApprovedAmount = r.ApprovedAmount
	}
	if r.Comments != nil {
		c.Comments = r.Comments
	}
}
