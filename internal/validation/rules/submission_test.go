package rules

import (
	"context"
	"testing"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimantInfoRule(t *testing.T) {
	rule := NewClaimantInfoRule()

	result, err := rule.Validate(context.Background(), &claim.Claim{ClaimantName: "Dana Reyes"}, vctxAt(time.Now()))
	require.NoError(t, err)
	assert.True(t, result.IsValid)

	result, err = rule.Validate(context.Background(), &claim.Claim{}, vctxAt(time.Now()))
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeMissingClaimantName, result.Errors[0].Code)
}

func TestClaimAmountRule(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		wantValid    bool
		wantWarnings int
	}{
		{name: "typical amount", amount: 5000, wantValid: true},
		{name: "zero amount", amount: 0, wantValid: false},
		{name: "negative amount", amount: -50, wantValid: false},
		{name: "exactly at threshold", amount: 100000, wantValid: true},
		{name: "above threshold warns", amount: 100000.01, wantValid: true, wantWarnings: 1},
	}

	rule := NewClaimAmountRule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := rule.Validate(context.Background(), &claim.Claim{ClaimAmount: tt.amount}, vctxAt(time.Now()))
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Len(t, result.Warnings, tt.wantWarnings)
			if tt.wantWarnings > 0 {
				assert.Equal(t, CodeHighValueClaim, result.Warnings[0].Code)
			}
		})
	}
}

func TestIncidentDateRule_FutureDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		incident time.Time
		wantOK   bool
	}{
		{name: "yesterday", incident: now.AddDate(0, 0, -1), wantOK: true},
		{name: "same calendar day later hour", incident: time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC), wantOK: true},
		{name: "tomorrow", incident: now.AddDate(0, 0, 1), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewIncidentDateRule(&mockPolicyRepo{})

			c := &claim.Claim{PolicyNumber: "POL-100", IncidentDate: tt.incident}
			result, err := rule.Validate(context.Background(), c, vctxAt(now))
			require.NoError(t, err)

			if tt.wantOK {
				assert.True(t, result.IsValid)
			} else {
				require.Len(t, result.Errors, 1)
				assert.Equal(t, CodeFutureIncidentDate, result.Errors[0].Code)
			}
		})
	}
}

func TestIncidentDateRule_PolicyPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rule := NewIncidentDateRule(&mockPolicyRepo{
		getFn: func(context.Context, string) (*claim.Policy, error) { return activePolicy(), nil },
	})

	c := policyTestClaim()
	c.IncidentDate = time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	result, err := rule.Validate(context.Background(), c, vctxAt(now))
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeOutsidePolicyPeriod, result.Errors[0].Code)

	c.IncidentDate = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	result, err = rule.Validate(context.Background(), c, vctxAt(now))
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestIncidentDateRule_MissingPolicySkipsPeriodCheck(t *testing.T) {
	rule := NewIncidentDateRule(&mockPolicyRepo{})

	c := policyTestClaim()
	result, err := rule.Validate(context.Background(), c, vctxAt(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.True(t, result.IsValid, "missing policy is the policy rule's finding")
}

func TestIncidentDuplicateRule(t *testing.T) {
	tests := []struct {
		name      string
		existing  []*claim.Claim
		wantCodes []string
		wantWarns []string
	}{
		{
			name: "no prior claims",
		},
		{
			name:      "approved duplicate blocks",
			existing:  []*claim.Claim{{ID: "c2", Status: workflow.StateApproved}},
			wantCodes: []string{CodeDuplicateApprovedClaim},
		},
		{
			name:      "pending duplicate warns",
			existing:  []*claim.Claim{{ID: "c2", Status: workflow.StateUnderReview}},
			wantWarns: []string{CodePendingDuplicateClaim},
		},
		{
			name:     "rejected and cancelled duplicates ignored",
			existing: []*claim.Claim{{ID: "c2", Status: workflow.StateRejected}, {ID: "c3", Status: workflow.StateCancelled}},
		},
		{
			name: "approved and pending together",
			existing: []*claim.Claim{
				{ID: "c2", Status: workflow.StateApproved},
				{ID: "c3", Status: workflow.StateSubmitted},
			},
			wantCodes: []string{CodeDuplicateApprovedClaim},
			wantWarns: []string{CodePendingDuplicateClaim},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewIncidentDuplicateRule(&mockClaimRepo{
				findByIncidentFn: func(context.Context, string, time.Time, time.Time, string) ([]*claim.Claim, error) {
					return tt.existing, nil
				},
			})

			result, err := rule.Validate(context.Background(), policyTestClaim(), vctxAt(time.Now()))
			require.NoError(t, err)

			var codes, warns []string
			for _, e := range result.Errors {
				codes = append(codes, e.Code)
			}
			for _, w := range result.Warnings {
				warns = append(warns, w.Code)
			}
			assert.ElementsMatch(t, tt.wantCodes, codes)
			assert.ElementsMatch(t, tt.wantWarns, warns)
			assert.Equal(t, len(tt.wantCodes) == 0, result.IsValid)
		})
	}
}

func TestIncidentDuplicateRule_ExcludesOwnClaim(t *testing.T) {
	var gotExclude string
	rule := NewIncidentDuplicateRule(&mockClaimRepo{
		findByIncidentFn: func(_ context.Context, _ string, _, _ time.Time, excludeID string) ([]*claim.Claim, error) {
			gotExclude = excludeID
			return nil, nil
		},
	})

	c := policyTestClaim()
	_, err := rule.Validate(context.Background(), c, vctxAt(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, c.ID, gotExclude)
}
