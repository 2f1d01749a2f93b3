package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/processor"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/service"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
)

// Handlers binds the claim application services to registry functions
type Handlers struct {
	processor *processor.ClaimProcessor
	claims    *service.ClaimsService
	export    *service.ExportService
	analyzer  port.ClaimAnalyzer
}

// NewHandlers creates the function handler set. The analyzer may be nil, in
// which case analyze_claim is not registered.
func NewHandlers(
	p *processor.ClaimProcessor,
	claims *service.ClaimsService,
	export *service.ExportService,
	analyzer port.ClaimAnalyzer,
) *Handlers {
	return &Handlers{
		processor: p,
		claims:    claims,
		export:    export,
		analyzer:  analyzer,
	}
}

// RegisterAll registers every claim function on the registry
func (h *Handlers) RegisterAll(registry *Registry) {
	registry.Register("submit_claim", h.SubmitClaim)
	registry.Register("validate_claim", h.ValidateClaim)
	registry.Register("get_claim_status", h.GetClaimStatus)
	registry.Register("list_claims", h.ListClaims)
	registry.Register("start_review", h.StartReview)
	registry.Register("request_documents", h.RequestDocuments)
	registry.Register("provide_documents", h.ProvideDocuments)
	registry.Register("cancel_claim", h.CancelClaim)
	registry.Register("export_claims", h.ExportClaims)
	if h.analyzer != nil {
		registry.Register("analyze_claim", h.AnalyzeClaim)
	}
}

type claimActionParams struct {
	ClaimID           string   `json:"claim_id"`
	UserID            string   `json:"user_id"`
	Reason            string   `json:"reason,omitempty"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
}

func (p *claimActionParams) validate() error {
	if p.ClaimID == "" {
		return fmt.Errorf("claim_id is required")
	}
	return nil
}

// SubmitClaim handles the submit_claim function
func (h *Handlers) SubmitClaim(ctx context.Context, raw json.RawMessage) (any, error) {
	var params struct {
		claim.SubmitClaimInput
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return h.processor.SubmitClaim(ctx, params.SubmitClaimInput, params.UserID)
}

// ValidateClaim handles the validate_claim function
func (h *Handlers) ValidateClaim(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	return h.processor.ValidateClaim(ctx, params.ClaimID, params.UserID)
}

// GetClaimStatus handles the get_claim_status function
func (h *Handlers) GetClaimStatus(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	return h.claims.GetClaimStatus(ctx, params.ClaimID)
}

// ListClaims handles the list_claims function
func (h *Handlers) ListClaims(ctx context.Context, raw json.RawMessage) (any, error) {
	var filter claim.ListClaimsFilter
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &filter); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}
	return h.claims.ListClaims(ctx, filter)
}

// StartReview handles the start_review function
func (h *Handlers) StartReview(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	return h.processor.StartReview(ctx, params.ClaimID, params.UserID)
}

// RequestDocuments handles the request_documents function
func (h *Handlers) RequestDocuments(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	if len(params.RequiredDocuments) == 0 {
		return nil, fmt.Errorf("required_documents is required")
	}
	return h.processor.RequestDocuments(ctx, params.ClaimID, params.UserID, params.RequiredDocuments)
}

// ProvideDocuments handles the provide_documents function
func (h *Handlers) ProvideDocuments(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	return h.processor.ProvideDocuments(ctx, params.ClaimID, params.UserID)
}

// CancelClaim handles the cancel_claim function
func (h *Handlers) CancelClaim(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}
	return h.processor.CancelClaim(ctx, params.ClaimID, params.UserID, params.Reason)
}

// ExportClaims handles the export_claims function
func (h *Handlers) ExportClaims(ctx context.Context, raw json.RawMessage) (any, error) {
	var filter claim.ListClaimsFilter
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &filter); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}
	return h.export.ExportClaims(ctx, filter)
}

// AnalyzeClaim handles the analyze_claim function
func (h *Handlers) AnalyzeClaim(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decodeAction(raw)
	if err != nil {
		return nil, err
	}

	status, err := h.claims.GetClaimStatus(ctx, params.ClaimID)
	if err != nil {
		return nil, err
	}
	return h.analyzer.AnalyzeClaim(ctx, status.Claim)
}

func decodeAction(raw json.RawMessage) (*claimActionParams, error) {
	var params claimActionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &params, nil
}
