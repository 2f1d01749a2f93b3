package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRule struct {
	code     string
	errors   []Error
	warnings []Warning
	runErr   error
}

func (s *stubRule) Code() string { return s.code }

func (s *stubRule) Validate(context.Context, *claim.Claim, Context) (*Result, error) {
	if s.runErr != nil {
		return nil, s.runErr
	}
	return &Result{
		IsValid:  len(s.errors) == 0,
		Errors:   s.errors,
		Warnings: s.warnings,
	}, nil
}

func testVCtx() Context {
	return Context{UserID: "reviewer-1", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestValidate_NoRules(t *testing.T) {
	engine := NewEngine(zap.NewNop())

	result, err := engine.Validate(context.Background(), &claim.Claim{ID: "c1"}, testVCtx())
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, StatusValidated, result.Status)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_AggregatesAcrossRules(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	engine.AddRule(&stubRule{
		code:   "RULE_A",
		errors: []Error{{Field: "claim_amount", Message: "too small", Code: "A1"}},
	})
	engine.AddRule(&stubRule{
		code:     "RULE_B",
		warnings: []Warning{{Field: "claim", Message: "look twice", Code: "B1"}},
	})
	engine.AddRule(&stubRule{
		code:   "RULE_C",
		errors: []Error{{Field: "documents", Message: "missing", Code: "C1"}},
	})

	result, err := engine.Validate(context.Background(), &claim.Claim{ID: "c1"}, testVCtx())
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Len(t, result.Errors, 2)
	assert.Len(t, result.Warnings, 1)
}

func TestValidate_WarningsAloneStayValid(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	engine.AddRule(&stubRule{
		code:     "RULE_W",
		warnings: []Warning{{Field: "claim_amount", Message: "high value", Code: "W1"}},
	})

	result, err := engine.Validate(context.Background(), &claim.Claim{ID: "c1"}, testVCtx())
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Equal(t, StatusValidated, result.Status)
	assert.Len(t, result.Warnings, 1)
}

func TestValidate_RuleFailureAbortsRun(t *testing.T) {
	broken := errors.New("policy lookup timed out")

	engine := NewEngine(zap.NewNop())
	engine.AddRule(&stubRule{code: "RULE_OK"})
	engine.AddRule(&stubRule{code: "RULE_BROKEN", runErr: broken})

	result, err := engine.Validate(context.Background(), &claim.Claim{ID: "c1"}, testVCtx())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), "RULE_BROKEN")
}

func TestRules_ReportsRegisteredCodes(t *testing.T) {
	engine := NewEngine(zap.NewNop())
	engine.AddRule(&stubRule{code: "RULE_A"})
	engine.AddRule(&stubRule{code: "RULE_B"})

	assert.Equal(t, []string{"RULE_A", "RULE_B"}, engine.Rules())
}
