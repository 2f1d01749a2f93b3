package validation

import (
	"context"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
)

// Error is a blocking validation finding
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Warning is a non-blocking validation finding
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Result aggregates the findings of one or more rules
type Result struct {
	IsValid  bool      `json:"is_valid"`
	Errors   []Error   `json:"errors"`
	Warnings []Warning `json:"warnings"`
	Status   string    `json:"status,omitempty"`
}

// Result status labels
const (
	StatusValidated = "VALIDATED"
	StatusFailed    = "FAILED"
)

// Context carries the acting user and request metadata into every rule
type Context struct {
	UserID    string
	Timestamp time.Time
	Metadata  map[string]any
}

// Rule is an independent, side-effect-free check against a claim. Rules may
// read auxiliary data but must never mutate claim state. A returned error
// means the check itself could not run and fails the whole validation pass.
type Rule interface {
	Code() string
	Validate(ctx context.Context, c *claim.Claim, vctx Context) (*Result, error)
}

// HistoryEntry is an immutable record of one validation pipeline run
type HistoryEntry struct {
	ID          string    `json:"id"`
	ClaimID     string    `json:"claim_id"`
	ValidatedBy string    `json:"validated_by"`
	ValidatedAt time.Time `json:"validated_at"`
	IsValid     bool      `json:"is_valid"`
	Errors      []Error   `json:"errors"`
	Warnings    []Warning `json:"warnings"`
	Status      string    `json:"status"`
}
