package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"go.uber.org/zap"
)

// ErrClaimNotFound is returned when the requested claim does not exist
var ErrClaimNotFound = errors.New("claim not found")

// Cache TTLs for claim reads
const (
	statusCacheTTL = 5 * time.Minute
	listCacheTTL   = time.Minute
)

// ClaimStatus is a claim together with its validation and document history
type ClaimStatus struct {
	Claim             *claim.Claim               `json:"claim"`
	ValidationHistory []*validation.HistoryEntry `json:"validation_history"`
	Documents         []*claim.Document          `json:"documents"`
	AuditTrail        []*claim.AuditTrailEntry   `json:"audit_trail"`
}

// ClaimList is one page of filtered claims
type ClaimList struct {
	Claims   []*claim.Claim `json:"claims"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ClaimsService answers read queries about claims. Results are cached; the
// processor invalidates claim entries on every successful transition.
type ClaimsService struct {
	claims    port.ClaimRepository
	history   port.ValidationHistoryRepository
	documents port.DocumentRepository
	audit     port.AuditTrailRepository
	cache     port.Cache
	logger    *zap.Logger
}

// NewClaimsService creates a claims query service
func NewClaimsService(
	claims port.ClaimRepository,
	history port.ValidationHistoryRepository,
	documents port.DocumentRepository,
	audit port.AuditTrailRepository,
	cache port.Cache,
	logger *zap.Logger,
) *ClaimsService {
	return &ClaimsService{
		claims:    claims,
		history:   history,
		documents: documents,
		audit:     audit,
		cache:     cache,
		logger:    logger,
	}
}

// GetClaimStatus returns the claim with its validation history, documents
// and audit trail
func (s *ClaimsService) GetClaimStatus(ctx context.Context, claimID string) (*ClaimStatus, error) {
	cacheKey := "claim:" + claimID + ":status"
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if status, ok := cached.(*ClaimStatus); ok {
				return status, nil
			}
		}
	}

	c, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim: %w", err)
	}

	history, err := s.history.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation history: %w", err)
	}

	documents, err := s.documents.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	trail, err := s.audit.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit trail: %w", err)
	}

	status := &ClaimStatus{
		Claim:             c,
		ValidationHistory: history,
		Documents:         documents,
		AuditTrail:        trail,
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, status, statusCacheTTL)
	}

	return status, nil
}

// ListClaims returns a filtered, paginated page of claims, newest first
func (s *ClaimsService) ListClaims(ctx context.Context, filter claim.ListClaimsFilter) (*ClaimList, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	cacheKey := listCacheKey(filter)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if list, ok := cached.(*ClaimList); ok {
				return list, nil
			}
		}
	}

	claims, total, err := s.claims.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	list := &ClaimList{
		Claims:   claims,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit,
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, list, listCacheTTL)
	}

	return list, nil
}

func listCacheKey(f claim.ListClaimsFilter) string {
	return fmt.Sprintf("claims:list:%s:%s:%s:%s:%s:%s:%g:%g:%d:%d",
		f.Status, f.ClaimType, f.PolicyNumber, f.ClaimantName,
		f.FromDate, f.ToDate, f.MinAmount, f.MaxAmount, f.Page, f.Limit)
}
