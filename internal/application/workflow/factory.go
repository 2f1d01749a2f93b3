package workflow

import (
	domainwf "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
)

// TransitionGuards holds the preconditions attached to gated transitions.
// A nil guard leaves the transition unconditional.
type TransitionGuards struct {
	// SubmitReady gates DRAFT --SUBMIT--> SUBMITTED on required fields
	SubmitReady domainwf.GuardFunc

	// DocumentsProvided gates PENDING_DOCUMENTS --PROVIDE_DOCUMENTS-->
	// UNDER_REVIEW on a recent document upload
	DocumentsProvided domainwf.GuardFunc

	// ValidationPassed gates VALIDATING --APPROVE--> APPROVED on the latest
	// validation history verdict
	ValidationPassed domainwf.GuardFunc
}

// BuildClaimStateMachine creates a state machine configured with the claim
// lifecycle transition table.
func BuildClaimStateMachine(initialState domainwf.State, guards TransitionGuards) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateDraft).
		PermitIf(domainwf.ActionSubmit, domainwf.StateSubmitted, guards.SubmitReady).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StateSubmitted).
		Permit(domainwf.ActionStartReview, domainwf.StateUnderReview).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StateUnderReview).
		Permit(domainwf.ActionRequestDocuments, domainwf.StatePendingDocuments).
		Permit(domainwf.ActionValidate, domainwf.StateValidating).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StatePendingDocuments).
		PermitIf(domainwf.ActionProvideDocuments, domainwf.StateUnderReview, guards.DocumentsProvided).
		Permit(domainwf.ActionCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StateValidating).
		PermitIf(domainwf.ActionApprove, domainwf.StateApproved, guards.ValidationPassed).
		Permit(domainwf.ActionReject, domainwf.StateRejected)

	// APPROVED, REJECTED and CANCELLED are terminal - no outgoing transitions

	return builder.Build(initialState)
}
