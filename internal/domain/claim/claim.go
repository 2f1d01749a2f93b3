package claim

import (
	"fmt"
	"strings"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
)

// MaxDescriptionLength bounds the free-text description on a claim
const MaxDescriptionLength = 1000

// Claim is a request for compensation under a policy, tracked through the
// workflow lifecycle. Status is owned exclusively by the workflow engine.
type Claim struct {
	ID           string         `json:"id"`
	ClaimNumber  string         `json:"claim_number"`
	PolicyNumber string         `json:"policy_number"`
	ClaimantName string         `json:"claimant_name"`
	ClaimType    string         `json:"claim_type"`
	ClaimAmount  float64        `json:"claim_amount"`
	IncidentDate time.Time      `json:"incident_date"`
	Description  string         `json:"description,omitempty"`
	Documents    []string       `json:"documents"`
	Status       workflow.State `json:"status"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ProcessedBy  string         `json:"processed_by,omitempty"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SubmitClaimInput carries the fields accepted from the transport layer
// when a new claim is submitted.
type SubmitClaimInput struct {
	PolicyNumber string   `json:"policy_number"`
	ClaimantName string   `json:"claimant_name"`
	ClaimType    string   `json:"claim_type"`
	ClaimAmount  float64  `json:"claim_amount"`
	IncidentDate string   `json:"incident_date"`
	Documents    []string `json:"documents"`
	Description  string   `json:"description,omitempty"`
}

// Validate checks schema-level constraints before any workflow logic runs
func (in *SubmitClaimInput) Validate() error {
	if strings.TrimSpace(in.PolicyNumber) == "" {
		return fmt.Errorf("policy_number is required")
	}
	if strings.TrimSpace(in.ClaimantName) == "" {
		return fmt.Errorf("claimant_name is required")
	}
	if strings.TrimSpace(in.ClaimType) == "" {
		return fmt.Errorf("claim_type is required")
	}
	if in.ClaimAmount <= 0 {
		return fmt.Errorf("claim_amount must be positive")
	}
	if _, err := ParseDate(in.IncidentDate); err != nil {
		return fmt.Errorf("incident_date must be an ISO 8601 date: %w", err)
	}
	if len(in.Description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}
	return nil
}

// ListClaimsFilter narrows claim listing results
type ListClaimsFilter struct {
	Status       string  `json:"status,omitempty"`
	ClaimType    string  `json:"claim_type,omitempty"`
	PolicyNumber string  `json:"policy_number,omitempty"`
	ClaimantName string  `json:"claimant_name,omitempty"`
	FromDate     string  `json:"from_date,omitempty"`
	ToDate       string  `json:"to_date,omitempty"`
	MinAmount    float64 `json:"min_amount,omitempty"`
	MaxAmount    float64 `json:"max_amount,omitempty"`
	Page         int     `json:"page,omitempty"`
	Limit        int     `json:"limit,omitempty"`
}

// ParseDate parses an ISO 8601 calendar date or timestamp
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// TruncateToDay zeroes the time-of-day component for day-granularity comparisons
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
