package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

// Finding codes emitted by the submission rules
const (
	CodeMissingClaimantName    = "MISSING_CLAIMANT_NAME"
	CodeInvalidClaimAmount     = "INVALID_CLAIM_AMOUNT"
	CodeHighValueClaim         = "HIGH_VALUE_CLAIM"
	CodeFutureIncidentDate     = "FUTURE_INCIDENT_DATE"
	CodeOutsidePolicyPeriod    = "OUTSIDE_POLICY_PERIOD"
	CodeDuplicateApprovedClaim = "DUPLICATE_APPROVED_CLAIM"
	CodePendingDuplicateClaim  = "PENDING_DUPLICATE_CLAIM"
)

// highValueThreshold triggers a non-blocking review warning
const highValueThreshold = 100000.0

// ClaimantInfoRule checks that a claimant name is present
type ClaimantInfoRule struct{}

func NewClaimantInfoRule() *ClaimantInfoRule { return &ClaimantInfoRule{} }

func (r *ClaimantInfoRule) Code() string { return "CLAIMANT_INFO" }

func (r *ClaimantInfoRule) Validate(_ context.Context, c *claim.Claim, _ validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	if c.ClaimantName == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, validation.Error{
			Field:   "claimant_name",
			Message: "Claimant name is required",
			Code:    CodeMissingClaimantName,
		})
	}

	return result, nil
}

// ClaimAmountRule checks the claim amount is positive and warns on high values
type ClaimAmountRule struct{}

func NewClaimAmountRule() *ClaimAmountRule { return &ClaimAmountRule{} }

func (r *ClaimAmountRule) Code() string { return "CLAIM_AMOUNT" }

func (r *ClaimAmountRule) Validate(_ context.Context, c *claim.Claim, _ validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	if c.ClaimAmount <= 0 {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "claim_amount",
			Message: "Claim amount must be greater than zero",
			Code:    CodeInvalidClaimAmount,
		})
	}

	if c.ClaimAmount > highValueThreshold {
		result.Warnings = append(result.Warnings, validation.Warning{
			Field:   "claim_amount",
			Message: "High value claim - requires additional review",
			Code:    CodeHighValueClaim,
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// IncidentDateRule checks the incident date is not in the future and falls
// within the policy coverage period. Date comparisons are day-granular.
type IncidentDateRule struct {
	policies port.PolicyRepository
}

func NewIncidentDateRule(policies port.PolicyRepository) *IncidentDateRule {
	return &IncidentDateRule{policies: policies}
}

func (r *IncidentDateRule) Code() string { return "INCIDENT_DATE" }

func (r *IncidentDateRule) Validate(ctx context.Context, c *claim.Claim, vctx validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	incident := claim.TruncateToDay(c.IncidentDate)
	today := claim.TruncateToDay(vctx.Timestamp)

	if incident.After(today) {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "incident_date",
			Message: "Incident date cannot be in the future",
			Code:    CodeFutureIncidentDate,
		})
	}

	policy, err := r.policies.GetByPolicyNumber(ctx, c.PolicyNumber)
	if err != nil {
		if !errors.Is(err, port.ErrNotFound) {
			return nil, fmt.Errorf("failed to fetch policy: %w", err)
		}
		// Missing policy is the policy rule's finding, not this rule's.
	} else if incident.Before(claim.TruncateToDay(policy.StartDate)) || incident.After(claim.TruncateToDay(policy.EndDate)) {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "incident_date",
			Message: "Incident date is outside of policy coverage period",
			Code:    CodeOutsidePolicyPeriod,
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// IncidentDuplicateRule blocks when a prior claim for the same incident date
// was already approved and warns when one is still pending.
type IncidentDuplicateRule struct {
	claims port.ClaimRepository
}

func NewIncidentDuplicateRule(claims port.ClaimRepository) *IncidentDuplicateRule {
	return &IncidentDuplicateRule{claims: claims}
}

func (r *IncidentDuplicateRule) Code() string { return "INCIDENT_DUPLICATE" }

func (r *IncidentDuplicateRule) Validate(ctx context.Context, c *claim.Claim, vctx validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	since := vctx.Timestamp.Add(-duplicateWindow)
	existing, err := r.claims.FindByIncident(ctx, c.PolicyNumber, c.IncidentDate, since, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to search for claims on the same incident: %w", err)
	}

	var pending, approved int
	for _, other := range existing {
		switch {
		case other.Status == workflow.StateApproved:
			approved++
		case !other.Status.IsTerminal():
			pending++
		}
	}

	if pending > 0 {
		result.Warnings = append(result.Warnings, validation.Warning{
			Field:   "general",
			Message: "There are pending claims for the same incident date",
			Code:    CodePendingDuplicateClaim,
		})
	}

	if approved > 0 {
		result.Errors = append(result.Errors, validation.Error{
			Field:   "general",
			Message: "A claim for this incident has already been approved",
			Code:    CodeDuplicateApprovedClaim,
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}
