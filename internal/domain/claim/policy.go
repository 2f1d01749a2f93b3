package claim

import "time"

// Policy status values as persisted in the policies table
const (
	PolicyStatusActive   = "active"
	PolicyStatusInactive = "inactive"
	PolicyStatusExpired  = "expired"
)

// Policy is a coverage contract referenced by claims. The core only ever
// reads policies; they are administered elsewhere.
type Policy struct {
	ID             string    `json:"id"`
	PolicyNumber   string    `json:"policy_number"`
	HolderName     string    `json:"holder_name"`
	Status         string    `json:"status"`
	CoverageAmount float64   `json:"coverage_amount"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

// Document is an uploaded file reference attached to a claim
type Document struct {
	ID         string    `json:"id"`
	ClaimID    string    `json:"claim_id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id,omitempty"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentCategory classifies documents; categories flagged required must be
// present on a claim before it can pass validation
type DocumentCategory struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RequiredForClaims bool   `json:"required_for_claims"`
}
