package claims_test

import (
	"testing"

	claims "github.com/aarogya/claims-api"
	"github.com/stretchr/testify/assert"
)

func TestClaimStatusIsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   claims.ClaimStatus
		expected bool
	}{
		{"Pending", claims.StatusPending, true},
		{"Approved", claims.StatusApproved, true},
		{"Rejected", claims.StatusRejected, true},
		{"Lowercase pending", claims.ClaimStatus("pending"), false},
		{"Unknown", claims.ClaimStatus("Denied"), false},
		{"Empty", claims.ClaimStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestClaimReviewIsZero(t *testing.T) {
	assert.True(t, claims.ClaimReview{}.IsZero())

	status := claims.StatusApproved
	assert.False(t, claims.ClaimReview{Status: &status}.IsZero())

	amount := 100.0
	assert.False(t, claims.ClaimReview{ApprovedAmount: &amount}.IsZero())

	comments := "looks good"
	assert.False(t, claims.ClaimReview{Comments: &comments}.IsZero())
}

func TestClaimReviewColumns(t *testing.T) {
	status := claims.StatusApproved
	amount := 250.0
	comments := "approved in full"

	tests := []struct {
		name     string
		patch    claims.ClaimReview
		expected []string
	}{
		{
			name:     "Empty patch",
			patch:    claims.ClaimReview{},
			expected: []string{},
		},
		{
			name:     "Status only",
			patch:    claims.ClaimReview{Status: &status},
			expected: []string{"status"},
		},
		{
			name:     "Amount and comments",
			patch:    claims.ClaimReview{ApprovedAmount: &amount, Comments: &comments},
			expected: []string{"approved_amount", "comments"},
		},
		{
			name:     "Full patch",
			patch:    claims.ClaimReview{Status: &status, ApprovedAmount: &amount, Comments: &comments},
			expected: []string{"status", "approved_amount", "comments"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.patch.Columns())
		})
	}
}

func TestClaimReviewApply(t *testing.T) {
	t.Run("applies only present fields", func(t *testing.T) {
		existingAmount := 50.0
		record := &claims.Claim{
			Status:         claims.StatusPending,
			ApprovedAmount: &existingAmount,
		}

		status := claims.StatusRejected
		claims.ClaimReview{Status: &status}.Apply(record)

		assert.Equal(t, claims.StatusRejected, record.Status)
		assert.Equal(t, &existingAmount, record.ApprovedAmount)
		assert.Nil(t, record.Comments)
	})

	t.Run("later review overwrites earlier decision", func(t *testing.T) {
		record := &claims.Claim{Status: claims.StatusPending}

		approved := claims.StatusApproved
		amount := 300.0
		claims.ClaimReview{Status: &approved, ApprovedAmount: &amount}.Apply(record)

		rejected := claims.StatusRejected
		comments := "documentation insufficient"
		claims.ClaimReview{Status: &rejected, Comments: &comments}.Apply(record)

		assert.Equal(t, claims.StatusRejected, record.Status)
		assert.Equal(t, &amount, record.ApprovedAmount)
		assert.Equal(t, &comments, record.Comments)
	})
}
