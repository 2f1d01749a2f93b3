package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

// CodePotentialDuplicate flags a similar claim filed recently
const CodePotentialDuplicate = "POTENTIAL_DUPLICATE"

// duplicateWindow is how far back similar claims are considered
const duplicateWindow = 30 * 24 * time.Hour

// DuplicateClaimRule looks for claims sharing policy number, claim type and
// amount within the last 30 days. It only ever warns; it never blocks.
type DuplicateClaimRule struct {
	claims port.ClaimRepository
}

// NewDuplicateClaimRule creates a duplicate detection rule
func NewDuplicateClaimRule(claims port.ClaimRepository) *DuplicateClaimRule {
	return &DuplicateClaimRule{claims: claims}
}

func (r *DuplicateClaimRule) Code() string { return "DUPLICATE_CLAIM" }

func (r *DuplicateClaimRule) Validate(ctx context.Context, c *claim.Claim, vctx validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	since := vctx.Timestamp.Add(-duplicateWindow)
	similar, err := r.claims.FindSimilar(ctx, c.PolicyNumber, c.ClaimType, c.ClaimAmount, since, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to search for similar claims: %w", err)
	}

	if len(similar) > 0 {
		result.Warnings = append(result.Warnings, validation.Warning{
			Field:   "claim",
			Message: "Similar claim detected within the last 30 days",
			Code:    CodePotentialDuplicate,
		})
	}

	return result, nil
}
