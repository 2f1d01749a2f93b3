package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	domainwf "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClaimNotFound is returned when the referenced claim does not exist
var ErrClaimNotFound = errors.New("claim not found")

// SubmitResult pairs the persisted claim with the SUBMIT workflow outcome.
// The claim's in-memory status reflects creation time, not the transition;
// callers needing the committed status must re-fetch.
type SubmitResult struct {
	Claim    *claim.Claim     `json:"claim"`
	Workflow *workflow.Result `json:"workflow_result"`
}

// ValidateResult pairs the validation verdict with the final workflow outcome
type ValidateResult struct {
	Validation *validation.Result `json:"validation_result,omitempty"`
	Workflow   *workflow.Result   `json:"workflow_result"`
}

// ClaimProcessor orchestrates the workflow engine and the validation
// pipeline. It owns no state beyond its collaborators.
type ClaimProcessor struct {
	claims    port.ClaimRepository
	history   port.ValidationHistoryRepository
	engine    workflow.ClaimWorkflowEngine
	validator *validation.Engine
	cache     port.Cache
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures the processor
type Option func(*ClaimProcessor)

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(p *ClaimProcessor) {
		p.now = now
	}
}

// WithCache attaches a cache whose claim entries are invalidated on every
// successful transition
func WithCache(cache port.Cache) Option {
	return func(p *ClaimProcessor) {
		p.cache = cache
	}
}

// NewClaimProcessor creates a claim processor
func NewClaimProcessor(
	claims port.ClaimRepository,
	history port.ValidationHistoryRepository,
	engine workflow.ClaimWorkflowEngine,
	validator *validation.Engine,
	logger *zap.Logger,
	opts ...Option,
) *ClaimProcessor {
	p := &ClaimProcessor{
		claims:    claims,
		history:   history,
		engine:    engine,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SubmitClaim inserts a new DRAFT claim and immediately submits it through
// the workflow.
func (p *ClaimProcessor) SubmitClaim(ctx context.Context, input claim.SubmitClaimInput, userID string) (*SubmitResult, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claim submission: %w", err)
	}

	incidentDate, err := claim.ParseDate(input.IncidentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid incident_date: %w", err)
	}

	now := p.now()
	c := &claim.Claim{
		ID:           uuid.NewString(),
		ClaimNumber:  fmt.Sprintf("CLM-%s-%s", now.Format("20060102"), uuid.NewString()[:8]),
		PolicyNumber: input.PolicyNumber,
		ClaimantName: input.ClaimantName,
		ClaimType:    input.ClaimType,
		ClaimAmount:  input.ClaimAmount,
		IncidentDate: incidentDate,
		Description:  input.Description,
		Documents:    input.Documents,
		Status:       domainwf.StateDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.claims.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	wctx := workflow.Context{UserID: userID, Timestamp: now}
	result := p.engine.ExecuteAction(ctx, c, domainwf.ActionSubmit, wctx)
	if result.Success {
		p.invalidate(c.ID)
	}

	return &SubmitResult{Claim: c, Workflow: result}, nil
}

// ValidateClaim transitions the claim to VALIDATING, runs the rule pipeline,
// records the verdict, and approves or rejects accordingly. The pipeline
// never runs if the VALIDATE transition is refused.
func (p *ClaimProcessor) ValidateClaim(ctx context.Context, claimID, userID string) (*ValidateResult, error) {
	c, err := p.fetch(ctx, claimID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	wctx := workflow.Context{UserID: userID, Timestamp: now}

	start := p.engine.ExecuteAction(ctx, c, domainwf.ActionValidate, wctx)
	if !start.Success {
		return &ValidateResult{Workflow: start}, nil
	}
	c.Status = start.NewState

	vctx := validation.Context{UserID: userID, Timestamp: now}
	verdict, err := p.validator.Validate(ctx, c, vctx)
	if err != nil {
		return nil, fmt.Errorf("validation run failed: %w", err)
	}

	// One history row per pipeline run, clean or not. The APPROVE guard
	// reads the latest row back.
	entry := &validation.HistoryEntry{
		ClaimID:     c.ID,
		ValidatedBy: userID,
		ValidatedAt: now,
		IsValid:     verdict.IsValid,
		Errors:      verdict.Errors,
		Warnings:    verdict.Warnings,
		Status:      verdict.Status,
	}
	if err := p.history.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store validation history: %w", err)
	}

	action := domainwf.ActionReject
	if verdict.IsValid {
		action = domainwf.ActionApprove
	}

	final := p.engine.ExecuteAction(ctx, c, action, wctx)
	p.invalidate(c.ID)

	return &ValidateResult{Validation: verdict, Workflow: final}, nil
}

// StartReview moves a submitted claim into review
func (p *ClaimProcessor) StartReview(ctx context.Context, claimID, userID string) (*workflow.Result, error) {
	c, err := p.fetch(ctx, claimID)
	if err != nil {
		return nil, err
	}

	wctx := workflow.Context{UserID: userID, Timestamp: p.now()}
	result := p.engine.ExecuteAction(ctx, c, domainwf.ActionStartReview, wctx)
	if result.Success {
		p.invalidate(c.ID)
	}
	return result, nil
}

// RequestDocuments stashes the requested document names on the claim and
// moves it to PENDING_DOCUMENTS.
func (p *ClaimProcessor) RequestDocuments(ctx context.Context, claimID, userID string, requiredDocuments []string) (*workflow.Result, error) {
	c, err := p.fetch(ctx, claimID)
	if err != nil {
		return nil, err
	}

	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["required_documents"] = requiredDocuments
	if err := p.claims.UpdateMetadata(ctx, c.ID, metadata); err != nil {
		return nil, fmt.Errorf("failed to update claim metadata: %w", err)
	}

	wctx := workflow.Context{
		UserID:    userID,
		Timestamp: p.now(),
		Metadata:  map[string]any{"required_documents": requiredDocuments},
	}
	result := p.engine.ExecuteAction(ctx, c, domainwf.ActionRequestDocuments, wctx)
	if result.Success {
		p.invalidate(c.ID)
	}
	return result, nil
}

// ProvideDocuments returns a PENDING_DOCUMENTS claim to review once fresh
// documents have been uploaded.
func (p *ClaimProcessor) ProvideDocuments(ctx context.Context, claimID, userID string) (*workflow.Result, error) {
	c, err := p.fetch(ctx, claimID)
	if err != nil {
		return nil, err
	}

	wctx := workflow.Context{UserID: userID, Timestamp: p.now()}
	result := p.engine.ExecuteAction(ctx, c, domainwf.ActionProvideDocuments, wctx)
	if result.Success {
		p.invalidate(c.ID)
	}
	return result, nil
}

// CancelClaim cancels a claim from any non-terminal, non-validating state
func (p *ClaimProcessor) CancelClaim(ctx context.Context, claimID, userID, reason string) (*workflow.Result, error) {
	c, err := p.fetch(ctx, claimID)
	if err != nil {
		return nil, err
	}

	wctx := workflow.Context{
		UserID:    userID,
		Timestamp: p.now(),
		Metadata:  map[string]any{"cancellation_reason": reason},
	}
	result := p.engine.ExecuteAction(ctx, c, domainwf.ActionCancel, wctx)
	if result.Success {
		p.invalidate(c.ID)
	}
	return result, nil
}

func (p *ClaimProcessor) fetch(ctx context.Context, claimID string) (*claim.Claim, error) {
	c, err := p.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim: %w", err)
	}
	return c, nil
}

func (p *ClaimProcessor) invalidate(claimID string) {
	if p.cache == nil {
		return
	}
	p.cache.DeletePattern("claim:" + claimID)
	p.cache.DeletePattern("claims:list")
}
