package rules

import (
	"context"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

// CodeMissingRequiredDocument flags an absent required document category
const CodeMissingRequiredDocument = "MISSING_REQUIRED_DOCUMENT"

// RequiredDocumentsRule verifies that every document category flagged as
// required for claims has at least one submitted document on the claim.
type RequiredDocumentsRule struct {
	documents port.DocumentRepository
}

// NewRequiredDocumentsRule creates a required-documents rule
func NewRequiredDocumentsRule(documents port.DocumentRepository) *RequiredDocumentsRule {
	return &RequiredDocumentsRule{documents: documents}
}

func (r *RequiredDocumentsRule) Code() string { return "REQUIRED_DOCUMENTS" }

func (r *RequiredDocumentsRule) Validate(ctx context.Context, c *claim.Claim, _ validation.Context) (*validation.Result, error) {
	result := &validation.Result{IsValid: true, Errors: []validation.Error{}, Warnings: []validation.Warning{}}

	categories, err := r.documents.ListRequiredCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch required document categories: %w", err)
	}

	submitted, err := r.documents.GetByClaimID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch claim documents: %w", err)
	}

	byCategory := make(map[string]bool, len(submitted))
	for _, doc := range submitted {
		byCategory[doc.CategoryID] = true
	}

	for _, category := range categories {
		if !byCategory[category.ID] {
			result.Errors = append(result.Errors, validation.Error{
				Field:   "documents",
				Message: fmt.Sprintf("Missing required document: %s", category.Name),
				Code:    CodeMissingRequiredDocument,
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}
