package workflow

import (
	"context"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
)

type mockClaimRepo struct {
	updateStatusFn func(ctx context.Context, upd port.StatusUpdate) error
	statusUpdates  []port.StatusUpdate
}

func (m *mockClaimRepo) Create(context.Context, *claim.Claim) error { return nil }
func (m *mockClaimRepo) GetByID(context.Context, string) (*claim.Claim, error) {
	return nil, port.ErrNotFound
}
func (m *mockClaimRepo) List(context.Context, claim.ListClaimsFilter) ([]*claim.Claim, int, error) {
	return nil, 0, nil
}
func (m *mockClaimRepo) UpdateStatus(ctx context.Context, upd port.StatusUpdate) error {
	m.statusUpdates = append(m.statusUpdates, upd)
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, upd)
	}
	return nil
}
func (m *mockClaimRepo) UpdateMetadata(context.Context, string, map[string]any) error { return nil }
func (m *mockClaimRepo) FindSimilar(context.Context, string, string, float64, time.Time, string) ([]*claim.Claim, error) {
	return nil, nil
}
func (m *mockClaimRepo) FindByIncident(context.Context, string, time.Time, time.Time, string) ([]*claim.Claim, error) {
	return nil, nil
}

type mockDocumentRepo struct {
	countFn func(ctx context.Context, claimID string, since time.Time) (int, error)
}

func (m *mockDocumentRepo) GetByClaimID(context.Context, string) ([]*claim.Document, error) {
	return nil, nil
}
func (m *mockDocumentRepo) CountUploadedSince(ctx context.Context, claimID string, since time.Time) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, claimID, since)
	}
	return 0, nil
}
func (m *mockDocumentRepo) ListRequiredCategories(context.Context) ([]*claim.DocumentCategory, error) {
	return nil, nil
}

type mockHistoryRepo struct {
	latestFn func(ctx context.Context, claimID string) (*validation.HistoryEntry, error)
}

func (m *mockHistoryRepo) Create(context.Context, *validation.HistoryEntry) error { return nil }
func (m *mockHistoryRepo) GetByClaimID(context.Context, string) ([]*validation.HistoryEntry, error) {
	return nil, nil
}
func (m *mockHistoryRepo) GetLatestByClaimID(ctx context.Context, claimID string) (*validation.HistoryEntry, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, claimID)
	}
	return nil, port.ErrNotFound
}

type mockAuditRepo struct {
	createFn func(ctx context.Context, entry *claim.AuditTrailEntry) error
	entries  []*claim.AuditTrailEntry
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *claim.AuditTrailEntry) error {
	m.entries = append(m.entries, entry)
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}
func (m *mockAuditRepo) GetByClaimID(context.Context, string) ([]*claim.AuditTrailEntry, error) {
	return nil, nil
}

// mockTxManager runs the function directly, with no real transaction
type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
