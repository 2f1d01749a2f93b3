package validation

import (
	"context"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"go.uber.org/zap"
)

// Engine runs a set of registered rules against a claim and merges their
// findings. Rules execute independently; no ordering dependency between
// rules is permitted.
type Engine struct {
	rules  []Rule
	logger *zap.Logger
}

// NewEngine creates a validation engine with no rules registered
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// AddRule registers a rule. Insertion order is retained but carries no
// semantic weight.
func (e *Engine) AddRule(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the codes of all registered rules
func (e *Engine) Rules() []string {
	codes := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		codes = append(codes, r.Code())
	}
	return codes
}

// Validate executes every registered rule and aggregates results. Errors and
// warnings concatenate across rules; the aggregate is valid iff no rule
// produced an error. A rule that fails to run fails the whole pass.
func (e *Engine) Validate(ctx context.Context, c *claim.Claim, vctx Context) (*Result, error) {
	result := &Result{
		IsValid:  true,
		Errors:   []Error{},
		Warnings: []Warning{},
	}

	for _, rule := range e.rules {
		ruleResult, err := rule.Validate(ctx, c, vctx)
		if err != nil {
			e.logger.Error("Validation rule failed to run",
				zap.String("rule", rule.Code()),
				zap.String("claim_id", c.ID),
				zap.Error(err))
			return nil, fmt.Errorf("rule %s failed: %w", rule.Code(), err)
		}

		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	result.IsValid = len(result.Errors) == 0
	if result.IsValid {
		result.Status = StatusValidated
	} else {
		result.Status = StatusFailed
	}

	return result, nil
}
