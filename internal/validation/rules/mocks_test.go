package rules

import (
	"context"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
)

type mockPolicyRepo struct {
	getFn func(ctx context.Context, policyNumber string) (*claim.Policy, error)
}

func (m *mockPolicyRepo) GetByPolicyNumber(ctx context.Context, policyNumber string) (*claim.Policy, error) {
	if m.getFn != nil {
		return m.getFn(ctx, policyNumber)
	}
	return nil, port.ErrNotFound
}

type mockClaimRepo struct {
	findSimilarFn    func(ctx context.Context, policyNumber, claimType string, amount float64, since time.Time, excludeID string) ([]*claim.Claim, error)
	findByIncidentFn func(ctx context.Context, policyNumber string, incidentDate, since time.Time, excludeID string) ([]*claim.Claim, error)
}

func (m *mockClaimRepo) Create(context.Context, *claim.Claim) error { return nil }
func (m *mockClaimRepo) GetByID(context.Context, string) (*claim.Claim, error) {
	return nil, port.ErrNotFound
}
func (m *mockClaimRepo) List(context.Context, claim.ListClaimsFilter) ([]*claim.Claim, int, error) {
	return nil, 0, nil
}
func (m *mockClaimRepo) UpdateStatus(context.Context, port.StatusUpdate) error       { return nil }
func (m *mockClaimRepo) UpdateMetadata(context.Context, string, map[string]any) error { return nil }
func (m *mockClaimRepo) FindSimilar(ctx context.Context, policyNumber, claimType string, amount float64, since time.Time, excludeID string) ([]*claim.Claim, error) {
	if m.findSimilarFn != nil {
		return m.findSimilarFn(ctx, policyNumber, claimType, amount, since, excludeID)
	}
	return nil, nil
}
func (m *mockClaimRepo) FindByIncident(ctx context.Context, policyNumber string, incidentDate, since time.Time, excludeID string) ([]*claim.Claim, error) {
	if m.findByIncidentFn != nil {
		return m.findByIncidentFn(ctx, policyNumber, incidentDate, since, excludeID)
	}
	return nil, nil
}

type mockDocumentRepo struct {
	documents  []*claim.Document
	categories []*claim.DocumentCategory
	getErr     error
	listErr    error
}

func (m *mockDocumentRepo) GetByClaimID(context.Context, string) ([]*claim.Document, error) {
	return m.documents, m.getErr
}
func (m *mockDocumentRepo) CountUploadedSince(context.Context, string, time.Time) (int, error) {
	return 0, nil
}
func (m *mockDocumentRepo) ListRequiredCategories(context.Context) ([]*claim.DocumentCategory, error) {
	return m.categories, m.listErr
}
