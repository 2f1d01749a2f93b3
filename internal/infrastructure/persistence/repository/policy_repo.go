package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/domain/claim"
	"go.uber.org/zap"
)

// PolicyRepository implements port.PolicyRepository on sqlite
type PolicyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *sql.DB, logger *zap.Logger) port.PolicyRepository {
	return &PolicyRepository{db: db, logger: logger}
}

// GetByPolicyNumber retrieves a policy by its policy number
func (r *PolicyRepository) GetByPolicyNumber(ctx context.Context, policyNumber string) (*claim.Policy, error) {
	query := `
		SELECT id, policy_number, holder_name, status, coverage_amount, start_date, end_date
		FROM policies
		WHERE policy_number = ?
	`

	var p claim.Policy
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, policyNumber).Scan(
		&p.ID,
		&p.PolicyNumber,
		&p.HolderName,
		&p.Status,
		&p.CoverageAmount,
		&p.StartDate,
		&p.EndDate,
	)
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get policy", zap.String("policy_number", policyNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	return &p, nil
}
