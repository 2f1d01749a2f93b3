package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	domainwf "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineFixture struct {
	claims    *mockClaimRepo
	documents *mockDocumentRepo
	history   *mockHistoryRepo
	audit     *mockAuditRepo
	engine    ClaimWorkflowEngine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		claims:    &mockClaimRepo{},
		documents: &mockDocumentRepo{},
		history:   &mockHistoryRepo{},
		audit:     &mockAuditRepo{},
	}
	f.engine = NewEngine(f.claims, f.documents, f.history, f.audit, &mockTxManager{}, zap.NewNop())
	return f
}

func testClaim(status domainwf.State) *claim.Claim {
	return &claim.Claim{
		ID:           "claim-1",
		ClaimNumber:  "CLM-20250101-abcd1234",
		PolicyNumber: "POL-100",
		ClaimantName: "Dana Reyes",
		ClaimType:    "auto",
		ClaimAmount:  1200,
		Status:       status,
	}
}

func testContext() Context {
	return Context{UserID: "adjuster-1", Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func TestExecuteAction_SuccessfulTransition(t *testing.T) {
	f := newEngineFixture()

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateSubmitted), domainwf.ActionStartReview, testContext())

	require.True(t, result.Success)
	assert.Equal(t, domainwf.StateUnderReview, result.NewState)

	require.Len(t, f.claims.statusUpdates, 1)
	upd := f.claims.statusUpdates[0]
	assert.Equal(t, domainwf.StateSubmitted, upd.ExpectedStatus)
	assert.Equal(t, domainwf.StateUnderReview, upd.NewStatus)
	assert.Equal(t, "adjuster-1", upd.ProcessedBy)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, claim.AuditReviewStarted, f.audit.entries[0].Action)
	assert.Equal(t, "UNDER_REVIEW", f.audit.entries[0].Changes["new_status"])
}

func TestExecuteAction_InvalidTransition(t *testing.T) {
	f := newEngineFixture()

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateApproved), domainwf.ActionSubmit, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeInvalidTransition, result.Error.Code)
	assert.Empty(t, f.claims.statusUpdates, "no write on a refused transition")
	assert.Empty(t, f.audit.entries)
}

func TestExecuteAction_CancelDuringValidationRefused(t *testing.T) {
	f := newEngineFixture()

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateValidating), domainwf.ActionCancel, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeInvalidTransition, result.Error.Code)
}

func TestExecuteAction_SubmitGuard(t *testing.T) {
	f := newEngineFixture()

	c := testClaim(domainwf.StateDraft)
	c.ClaimantName = ""

	result := f.engine.ExecuteAction(context.Background(), c, domainwf.ActionSubmit, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeConditionsNotMet, result.Error.Code)
}

func TestExecuteAction_ApproveRequiresCleanValidation(t *testing.T) {
	tests := []struct {
		name     string
		latest   *validation.HistoryEntry
		wantCode string
	}{
		{
			name:     "no validation run yet",
			latest:   nil,
			wantCode: CodeConditionsNotMet,
		},
		{
			name:     "latest run failed",
			latest:   &validation.HistoryEntry{IsValid: false},
			wantCode: CodeConditionsNotMet,
		},
		{
			name:   "latest run passed",
			latest: &validation.HistoryEntry{IsValid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture()
			f.history.latestFn = func(context.Context, string) (*validation.HistoryEntry, error) {
				if tt.latest == nil {
					return nil, port.ErrNotFound
				}
				return tt.latest, nil
			}

			result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateValidating), domainwf.ActionApprove, testContext())

			if tt.wantCode != "" {
				require.False(t, result.Success)
				assert.Equal(t, tt.wantCode, result.Error.Code)
			} else {
				require.True(t, result.Success)
				assert.Equal(t, domainwf.StateApproved, result.NewState)
			}
		})
	}
}

func TestExecuteAction_ProvideDocumentsGuard(t *testing.T) {
	f := newEngineFixture()

	var gotSince time.Time
	f.documents.countFn = func(_ context.Context, _ string, since time.Time) (int, error) {
		gotSince = since
		return 0, nil
	}

	wctx := testContext()
	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StatePendingDocuments), domainwf.ActionProvideDocuments, wctx)

	require.False(t, result.Success)
	assert.Equal(t, CodeConditionsNotMet, result.Error.Code)
	assert.Equal(t, wctx.Timestamp.Add(-5*time.Minute), gotSince)

	f.documents.countFn = func(context.Context, string, time.Time) (int, error) { return 2, nil }
	result = f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StatePendingDocuments), domainwf.ActionProvideDocuments, wctx)
	require.True(t, result.Success)
	assert.Equal(t, domainwf.StateUnderReview, result.NewState)
}

func TestExecuteAction_GuardErrorIsWorkflowError(t *testing.T) {
	f := newEngineFixture()
	f.documents.countFn = func(context.Context, string, time.Time) (int, error) {
		return 0, errors.New("db gone")
	}

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StatePendingDocuments), domainwf.ActionProvideDocuments, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeWorkflowError, result.Error.Code)
}

func TestExecuteAction_StaleStatusLosesRace(t *testing.T) {
	f := newEngineFixture()
	f.claims.updateStatusFn = func(context.Context, port.StatusUpdate) error {
		return port.ErrStaleStatus
	}

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateSubmitted), domainwf.ActionStartReview, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeInvalidTransition, result.Error.Code)
}

func TestExecuteAction_AuditFailureRollsTransitionIntoError(t *testing.T) {
	f := newEngineFixture()
	f.audit.createFn = func(context.Context, *claim.AuditTrailEntry) error {
		return errors.New("insert failed")
	}

	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateSubmitted), domainwf.ActionStartReview, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeWorkflowError, result.Error.Code)
}

func TestExecuteAction_LegacyStatusNormalized(t *testing.T) {
	f := newEngineFixture()

	c := testClaim("pending")
	result := f.engine.ExecuteAction(context.Background(), c, domainwf.ActionStartReview, testContext())

	require.True(t, result.Success)
	assert.Equal(t, domainwf.StateUnderReview, result.NewState)
	require.Len(t, f.claims.statusUpdates, 1)
	assert.Equal(t, domainwf.StateSubmitted, f.claims.statusUpdates[0].ExpectedStatus)
}

func TestExecuteAction_UnknownStatus(t *testing.T) {
	f := newEngineFixture()

	result := f.engine.ExecuteAction(context.Background(), testClaim("???"), domainwf.ActionSubmit, testContext())

	require.False(t, result.Success)
	assert.Equal(t, CodeWorkflowError, result.Error.Code)
}

func TestExecuteAction_DefaultsActorToSystem(t *testing.T) {
	f := newEngineFixture()

	wctx := Context{Timestamp: time.Now()}
	result := f.engine.ExecuteAction(context.Background(), testClaim(domainwf.StateSubmitted), domainwf.ActionStartReview, wctx)

	require.True(t, result.Success)
	assert.Equal(t, "system", f.claims.statusUpdates[0].ProcessedBy)
	assert.Equal(t, "system", f.audit.entries[0].ActorID)
}

func TestPermittedActions_TerminalStatesHaveNone(t *testing.T) {
	f := newEngineFixture()

	for _, s := range []domainwf.State{domainwf.StateApproved, domainwf.StateRejected, domainwf.StateCancelled} {
		assert.Empty(t, f.engine.PermittedActions(testClaim(s)), "state %s", s)
	}

	assert.ElementsMatch(t,
		[]domainwf.Action{domainwf.ActionSubmit, domainwf.ActionCancel},
		f.engine.PermittedActions(testClaim(domainwf.StateDraft)))
}
