package port

import (
	"context"
	"errors"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrStaleStatus is returned when a guarded status update matched no row,
	// meaning another transition committed first
	ErrStaleStatus = errors.New("claim status changed concurrently")
)

// StatusUpdate describes one guarded claim status transition
type StatusUpdate struct {
	ClaimID        string
	ExpectedStatus workflow.State
	NewStatus      workflow.State
	ProcessedBy    string
	ProcessedAt    time.Time
}

// ClaimRepository defines persistence operations for Claim
type ClaimRepository interface {
	Create(ctx context.Context, c *claim.Claim) error
	GetByID(ctx context.Context, id string) (*claim.Claim, error)
	List(ctx context.Context, filter claim.ListClaimsFilter) ([]*claim.Claim, int, error)

	// UpdateStatus applies the transition only if the row still carries the
	// expected status; ErrStaleStatus reports a lost race.
	UpdateStatus(ctx context.Context, upd StatusUpdate) error

	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error

	// FindSimilar returns claims sharing policy number, type and amount
	// created since the given time, excluding the claim itself.
	FindSimilar(ctx context.Context, policyNumber, claimType string, amount float64, since time.Time, excludeID string) ([]*claim.Claim, error)

	// FindByIncident returns claims against the policy for the same incident
	// date created since the given time, excluding the claim itself.
	FindByIncident(ctx context.Context, policyNumber string, incidentDate time.Time, since time.Time, excludeID string) ([]*claim.Claim, error)
}

// PolicyRepository defines read operations for Policy
type PolicyRepository interface {
	GetByPolicyNumber(ctx context.Context, policyNumber string) (*claim.Policy, error)
}

// DocumentRepository defines read operations for documents and their categories
type DocumentRepository interface {
	GetByClaimID(ctx context.Context, claimID string) ([]*claim.Document, error)
	CountUploadedSince(ctx context.Context, claimID string, since time.Time) (int, error)
	ListRequiredCategories(ctx context.Context) ([]*claim.DocumentCategory, error)
}

// ValidationHistoryRepository defines persistence operations for validation runs
type ValidationHistoryRepository interface {
	Create(ctx context.Context, entry *validation.HistoryEntry) error
	GetByClaimID(ctx context.Context, claimID string) ([]*validation.HistoryEntry, error)
	GetLatestByClaimID(ctx context.Context, claimID string) (*validation.HistoryEntry, error)
}

// AuditTrailRepository defines persistence operations for workflow audit entries
type AuditTrailRepository interface {
	Create(ctx context.Context, entry *claim.AuditTrailEntry) error
	GetByClaimID(ctx context.Context, claimID string) ([]*claim.AuditTrailEntry, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
