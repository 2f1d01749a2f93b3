package claim

import "time"

// Audit action names recorded for each workflow transition
const (
	AuditClaimSubmitted     = "CLAIM_SUBMITTED"
	AuditReviewStarted      = "REVIEW_STARTED"
	AuditDocumentsRequested = "DOCUMENTS_REQUESTED"
	AuditDocumentsProvided  = "DOCUMENTS_PROVIDED"
	AuditValidationStarted  = "VALIDATION_STARTED"
	AuditClaimApproved      = "CLAIM_APPROVED"
	AuditClaimRejected      = "CLAIM_REJECTED"
	AuditClaimCancelled     = "CLAIM_CANCELLED"
)

// AuditTrailEntry is an immutable record of one workflow transition
type AuditTrailEntry struct {
	ID        string         `json:"id"`
	ClaimID   string         `json:"claim_id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id"`
	Changes   map[string]any `json:"changes"`
	CreatedAt time.Time      `json:"created_at"`
}
