package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

// Finding codes emitted by the policy rule
const (
	CodeInvalidPolicy         = "INVALID_POLICY"
	CodeInactivePolicy        = "INACTIVE_POLICY"
	CodeExceedsCoverage       = "EXCEEDS_COVERAGE"
	CodeOutsideCoveragePeriod = "OUTSIDE_COVERAGE_PERIOD"
)

// PolicyRule checks the claim against its referenced policy: existence,
// active status, coverage amount and coverage period.
type PolicyRule struct {
	policies port.PolicyRepository
}

// NewPolicyRule creates a policy validation rule
func NewPolicyRule(policies port.PolicyRepository) *PolicyRule {
	return &PolicyRule{policies: policies}
}

func (r *PolicyRule) Code() string { return "POLICY_VALIDATION" }

func (r *PolicyRule) Validate(ctx context.Context, c *claim.Claim, vctx validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	policy, err := r.policies.GetByPolicyNumber(ctx, c.PolicyNumber)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			result.IsValid = false
			result.Errors = append(result.Errors, validation.Error{
				Field:   "policy_number",
				Message: "Invalid or inactive policy number",
				Code:    CodeInvalidPolicy,
			})
			return result, nil
		}
		return nil, fmt.Errorf("failed to fetch policy: %w", err)
	}

	if policy.Status != claim.PolicyStatusActive {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "policy_number",
			Message: "Policy is not active",
			Code:    CodeInactivePolicy,
		})
	}

	if c.ClaimAmount > policy.CoverageAmount {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "claim_amount",
			Message: "Claim amount exceeds policy coverage",
			Code:    CodeExceedsCoverage,
		})
	}

	now := vctx.Timestamp
	if now.Before(policy.StartDate) || now.After(policy.EndDate) {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "policy_number",
			Message: "Claim date outside policy coverage period",
			Code:    CodeOutsideCoveragePeriod,
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}
