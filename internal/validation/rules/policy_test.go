package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activePolicy() *claim.Policy {
	return &claim.Policy{
		ID:             "p1",
		PolicyNumber:   "POL-100",
		HolderName:     "Dana Reyes",
		Status:         claim.PolicyStatusActive,
		CoverageAmount: 50000,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func policyTestClaim() *claim.Claim {
	return &claim.Claim{
		ID:           "c1",
		PolicyNumber: "POL-100",
		ClaimantName: "Dana Reyes",
		ClaimType:    "auto",
		ClaimAmount:  1200,
		IncidentDate: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	}
}

func vctxAt(t time.Time) validation.Context {
	return validation.Context{UserID: "reviewer-1", Timestamp: t}
}

func TestPolicyRule(t *testing.T) {
	midTerm := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		policy    *claim.Policy
		mutate    func(*claim.Claim)
		at        time.Time
		wantCodes []string
	}{
		{
			name:   "active policy in period",
			policy: activePolicy(),
			at:     midTerm,
		},
		{
			name: "inactive policy",
			policy: func() *claim.Policy {
				p := activePolicy()
				p.Status = claim.PolicyStatusInactive
				return p
			}(),
			at:        midTerm,
			wantCodes: []string{CodeInactivePolicy},
		},
		{
			name:      "amount exceeds coverage",
			policy:    activePolicy(),
			mutate:    func(c *claim.Claim) { c.ClaimAmount = 60000 },
			at:        midTerm,
			wantCodes: []string{CodeExceedsCoverage},
		},
		{
			name:      "outside coverage period",
			policy:    activePolicy(),
			at:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			wantCodes: []string{CodeOutsideCoveragePeriod},
		},
		{
			name: "multiple findings accumulate",
			policy: func() *claim.Policy {
				p := activePolicy()
				p.Status = claim.PolicyStatusExpired
				return p
			}(),
			mutate:    func(c *claim.Claim) { c.ClaimAmount = 60000 },
			at:        midTerm,
			wantCodes: []string{CodeInactivePolicy, CodeExceedsCoverage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewPolicyRule(&mockPolicyRepo{
				getFn: func(context.Context, string) (*claim.Policy, error) { return tt.policy, nil },
			})

			c := policyTestClaim()
			if tt.mutate != nil {
				tt.mutate(c)
			}

			result, err := rule.Validate(context.Background(), c, vctxAt(tt.at))
			require.NoError(t, err)

			var codes []string
			for _, e := range result.Errors {
				codes = append(codes, e.Code)
			}
			assert.ElementsMatch(t, tt.wantCodes, codes)
			assert.Equal(t, len(tt.wantCodes) == 0, result.IsValid)
		})
	}
}

func TestPolicyRule_UnknownPolicy(t *testing.T) {
	rule := NewPolicyRule(&mockPolicyRepo{})

	result, err := rule.Validate(context.Background(), policyTestClaim(), vctxAt(time.Now()))
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeInvalidPolicy, result.Errors[0].Code)
}

func TestPolicyRule_RepositoryFailure(t *testing.T) {
	broken := errors.New("db gone")
	rule := NewPolicyRule(&mockPolicyRepo{
		getFn: func(context.Context, string) (*claim.Policy, error) { return nil, broken },
	})

	_, err := rule.Validate(context.Background(), policyTestClaim(), vctxAt(time.Now()))
	assert.ErrorIs(t, err, broken)
	assert.NotErrorIs(t, err, port.ErrNotFound)
}
