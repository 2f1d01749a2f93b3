package workflow

import (
	"context"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	domainwf "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
)

// Structured failure codes returned to callers
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConditionsNotMet  = "CONDITIONS_NOT_MET"
	CodeWorkflowError     = "WORKFLOW_ERROR"
)

// Context carries the acting user into a workflow action
type Context struct {
	UserID    string
	Timestamp time.Time
	Metadata  map[string]any
}

// Error is a structured workflow failure
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of one workflow action. Expected failures
// (illegal transition, unmet precondition) are reported here as data,
// never as Go errors.
type Result struct {
	Success  bool           `json:"success"`
	NewState domainwf.State `json:"new_state,omitempty"`
	Error    *Error         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ClaimWorkflowEngine executes lifecycle actions against claims. It owns the
// claim's status field exclusively: the only legal status mutation anywhere
// in the system happens inside ExecuteAction.
type ClaimWorkflowEngine interface {
	// ExecuteAction validates and performs a state transition: precondition
	// check, then guarded status update, then audit trail write, strictly in
	// that order. Unexpected failures are reported as WORKFLOW_ERROR results.
	ExecuteAction(ctx context.Context, c *claim.Claim, action domainwf.Action, wctx Context) *Result

	// PermittedActions reports the actions currently legal for the claim
	PermittedActions(c *claim.Claim) []domainwf.Action
}
