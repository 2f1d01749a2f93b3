package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	domainwf "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"go.uber.org/zap"
)

// documentWindow is how recently a document must have been uploaded for
// PROVIDE_DOCUMENTS to count it
const documentWindow = 5 * time.Minute

// auditActions maps each workflow action to the audit trail entry it records
var auditActions = map[domainwf.Action]string{
	domainwf.ActionSubmit:           claim.AuditClaimSubmitted,
	domainwf.ActionStartReview:      claim.AuditReviewStarted,
	domainwf.ActionRequestDocuments: claim.AuditDocumentsRequested,
	domainwf.ActionProvideDocuments: claim.AuditDocumentsProvided,
	domainwf.ActionValidate:         claim.AuditValidationStarted,
	domainwf.ActionApprove:          claim.AuditClaimApproved,
	domainwf.ActionReject:           claim.AuditClaimRejected,
	domainwf.ActionCancel:           claim.AuditClaimCancelled,
}

// engineImpl is the concrete implementation of ClaimWorkflowEngine
type engineImpl struct {
	claims    port.ClaimRepository
	documents port.DocumentRepository
	history   port.ValidationHistoryRepository
	audit     port.AuditTrailRepository
	txManager port.TransactionManager
	logger    *zap.Logger
}

// NewEngine creates a claim workflow engine. Every collaborator arrives
// explicitly; the engine never reaches into ambient configuration.
func NewEngine(
	claims port.ClaimRepository,
	documents port.DocumentRepository,
	history port.ValidationHistoryRepository,
	audit port.AuditTrailRepository,
	txManager port.TransactionManager,
	logger *zap.Logger,
) ClaimWorkflowEngine {
	return &engineImpl{
		claims:    claims,
		documents: documents,
		history:   history,
		audit:     audit,
		txManager: txManager,
		logger:    logger,
	}
}

// ExecuteAction validates and performs a state transition for the claim
func (e *engineImpl) ExecuteAction(ctx context.Context, c *claim.Claim, action domainwf.Action, wctx Context) *Result {
	currentState, ok := domainwf.ParseState(c.Status.String())
	if !ok {
		return failure(CodeWorkflowError, fmt.Sprintf("invalid claim status: %s", c.Status))
	}

	machine := BuildClaimStateMachine(currentState, e.guardsFor(c, wctx))

	if !machine.CanFire(action) {
		return failure(CodeInvalidTransition,
			fmt.Sprintf("Cannot perform action %s from state %s", action, currentState))
	}

	if err := machine.Fire(ctx, action); err != nil {
		switch {
		case errors.Is(err, domainwf.ErrInvalidTransition):
			return failure(CodeInvalidTransition,
				fmt.Sprintf("Cannot perform action %s from state %s", action, currentState))
		case errors.Is(err, domainwf.ErrGuardFailed):
			return failure(CodeConditionsNotMet,
				fmt.Sprintf("Conditions not met for action %s", action))
		default:
			return failure(CodeWorkflowError, err.Error())
		}
	}

	newState := machine.State()
	actor := actorID(wctx)

	// Status update and audit entry commit together; precondition checks
	// above never run inside the transaction.
	err := e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		upd := port.StatusUpdate{
			ClaimID:        c.ID,
			ExpectedStatus: currentState,
			NewStatus:      newState,
			ProcessedBy:    actor,
			ProcessedAt:    wctx.Timestamp,
		}
		if err := e.claims.UpdateStatus(txCtx, upd); err != nil {
			return fmt.Errorf("failed to update claim status: %w", err)
		}

		entry := &claim.AuditTrailEntry{
			ClaimID:   c.ID,
			Action:    auditActions[action],
			ActorID:   actor,
			Changes:   map[string]any{"new_status": newState.String()},
			CreatedAt: wctx.Timestamp,
		}
		if err := e.audit.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, port.ErrStaleStatus) {
			return failure(CodeInvalidTransition,
				fmt.Sprintf("Claim left state %s before action %s committed", currentState, action))
		}
		e.logger.Error("Workflow transition failed",
			zap.String("claim_id", c.ID),
			zap.String("action", action.String()),
			zap.Error(err))
		return failure(CodeWorkflowError, err.Error())
	}

	e.logger.Info("Claim transitioned",
		zap.String("claim_id", c.ID),
		zap.String("action", action.String()),
		zap.String("from", currentState.String()),
		zap.String("to", newState.String()),
		zap.String("actor", actor))

	return &Result{
		Success:  true,
		NewState: newState,
		Metadata: map[string]any{
			"timestamp": wctx.Timestamp,
			"actor":     actor,
		},
	}
}

// PermittedActions reports the actions currently legal for the claim
func (e *engineImpl) PermittedActions(c *claim.Claim) []domainwf.Action {
	currentState, ok := domainwf.ParseState(c.Status.String())
	if !ok {
		return []domainwf.Action{}
	}
	return BuildClaimStateMachine(currentState, TransitionGuards{}).PermittedActions()
}

// guardsFor binds the transition preconditions to a specific claim
func (e *engineImpl) guardsFor(c *claim.Claim, wctx Context) TransitionGuards {
	return TransitionGuards{
		SubmitReady: func(ctx context.Context) (bool, error) {
			return c.PolicyNumber != "" && c.ClaimantName != "" && c.ClaimAmount > 0, nil
		},
		DocumentsProvided: func(ctx context.Context) (bool, error) {
			count, err := e.documents.CountUploadedSince(ctx, c.ID, wctx.Timestamp.Add(-documentWindow))
			if err != nil {
				return false, fmt.Errorf("failed to count recent documents: %w", err)
			}
			return count > 0, nil
		},
		ValidationPassed: func(ctx context.Context) (bool, error) {
			latest, err := e.history.GetLatestByClaimID(ctx, c.ID)
			if err != nil {
				if errors.Is(err, port.ErrNotFound) {
					return false, nil
				}
				return false, fmt.Errorf("failed to fetch validation history: %w", err)
			}
			return latest.IsValid, nil
		},
	}
}

func actorID(wctx Context) string {
	if wctx.UserID != "" {
		return wctx.UserID
	}
	return "system"
}

func failure(code, message string) *Result {
	return &Result{
		Success: false,
		Error:   &Error{Code: code, Message: message},
	}
}
